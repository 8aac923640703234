package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCString(t *testing.T) {
	require.Equal(t, "Linux", cstring([]byte{'L', 'i', 'n', 'u', 'x', 0, 0, 0}))
	require.Equal(t, "abc", cstring([]byte("abc")))
	require.Equal(t, "", cstring(make([]byte, 4)))
}

func TestGet(t *testing.T) {
	info := Get()
	require.NotEmpty(t, info.Name)
	require.NotEmpty(t, info.Machine)
}
