//go:build !unix

package sysinfo

import (
	"errors"
	"os"
)

func uname() (Info, error) {
	host, err := os.Hostname()
	if err != nil {
		return Info{}, errors.New("sysinfo: uname not supported")
	}

	info := Unknown
	info.Hostname = host
	return info, nil
}
