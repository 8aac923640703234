// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package report

import (
	"encoding/xml"
	"os/user"
	"strconv"
	"time"

	"github.com/ostafen/gifreel/pkg/sysinfo"
)

const (
	RootElement   = "gifreel"
	OutputVersion = "1.0"
)

// Header opens a report. Its Version is written as an attribute of the
// root element.
type Header struct {
	Version string  `xml:"-"`
	Creator Creator `xml:"creator"`
	Session string  `xml:"session,omitempty"`
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Animation records the outcome of decoding a single file. Error is set
// when decoding failed; the remaining fields then describe whatever was
// recovered before the failure.
type Animation struct {
	XMLName     xml.Name `xml:"animation"`
	Filename    string   `xml:"filename"`
	FileSize    uint64   `xml:"filesize"`
	Format      string   `xml:"version,omitempty"`
	Width       int      `xml:"width"`
	Height      int      `xml:"height"`
	LoopCount   int      `xml:"loop_count"`
	DurationMS  int64    `xml:"duration_ms"`
	Fingerprint string   `xml:"fingerprint,omitempty"`
	DuplicateOf string   `xml:"duplicate_of,omitempty"`

	// Sources and ImgOffset locate a stream carved out of a larger
	// image; Sources are the image parts in order.
	Sources   []string `xml:"source,omitempty"`
	ImgOffset int64    `xml:"img_offset,omitempty"`

	Error    string   `xml:"error,omitempty"`
	Frames   Frames   `xml:"frames"`
	Comments []string `xml:"comment,omitempty"`
}

type Frames struct {
	Count  int     `xml:"count,attr"`
	Frames []Frame `xml:"frame"`
}

type Frame struct {
	Index       int    `xml:"index,attr"`
	Left        int    `xml:"left,attr"`
	Top         int    `xml:"top,attr"`
	Width       int    `xml:"width,attr"`
	Height      int    `xml:"height,attr"`
	DelayMS     int64  `xml:"delay_ms,attr"`
	Disposal    string `xml:"disposal,attr"`
	Transparent int    `xml:"transparent,attr"`
	Interlaced  bool   `xml:"interlaced,attr,omitempty"`
	Incomplete  bool   `xml:"incomplete,attr,omitempty"`
}

// NewHeader fills a header for the running process.
func NewHeader(pkg, version, session string) Header {
	return Header{
		Version: OutputVersion,
		Creator: Creator{
			Package:              pkg,
			Version:              version,
			ExecutionEnvironment: GetExecEnv(),
		},
		Session: session,
	}
}

func GetExecEnv() ExecEnv {
	info := sysinfo.Get()

	uid := 0
	if u, err := user.Current(); err == nil {
		if n, err := strconv.Atoi(u.Uid); err == nil {
			uid = n
		}
	}

	host := info.Hostname
	if host == "" {
		host = "unknown_host"
	}

	return ExecEnv{
		OS:      info.Name,
		Release: info.Release,
		Version: info.Version,
		Host:    host,
		Arch:    info.Machine,
		UID:     uid,
		Start:   time.Now().UTC().Format(time.RFC3339),
	}
}
