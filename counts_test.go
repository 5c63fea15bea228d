package census

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSep(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1_000"},
		{12345, "12_345"},
		{123456, "123_456"},
		{1234567, "1_234_567"},
		{1000000000, "1_000_000_000"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sep(tt.n))
	}
}

func TestAllCountsString(t *testing.T) {
	ac := AllCounts{
		Entries: []Entry{
			{Name: "main.Gadget", Counts: Counts{Total: 1234, MaxLive: 12, Live: 1}},
			{Name: "main.W", Counts: Counts{Total: 1, MaxLive: 1, Live: 0}},
		},
	}

	want := "main.Gadget         1_234           12            1\n" +
		"main.W                  1            1            0\n" +
		"                    total     max_live         live\n"
	require.Equal(t, want, ac.String())
}

func TestAllCountsStringEmpty(t *testing.T) {
	defer Enable(false)

	Enable(false)
	require.Equal(t, "counts are disabled\n", AllCounts{}.String())

	Enable(true)
	require.Equal(t, "all counts are zero\n", AllCounts{}.String())
}
