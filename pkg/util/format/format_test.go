package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512B", FormatBytes(512))
	require.Equal(t, "1KB", FormatBytes(1024))
	require.Equal(t, "1.50MB", FormatBytes(3*MB/2))
	require.Equal(t, "4GB", FormatBytes(4*GB))
}

func TestParseBytes(t *testing.T) {
	cases := map[string]uint64{
		"512":   512,
		"512B":  512,
		"64KB":  64 * KB,
		"1.5mb": 3 * MB / 2,
		" 4GB ": 4 * GB,
		"2TB":   2 * TB,
		"":      math.MaxUint64,
	}
	for in, want := range cases {
		got, err := ParseBytes(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"MB", "abc", "-1KB"} {
		_, err := ParseBytes(in)
		require.Error(t, err, in)
	}
}
