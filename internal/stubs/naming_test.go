package stubs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEpisodeBaseName(t *testing.T) {
	assert.Equal(t, "S01E02 - Pilot", EpisodeBaseName(1, 2, "Pilot"))
	assert.Equal(t, "S10E100 - Finale", EpisodeBaseName(10, 100, "Finale"))
	assert.Equal(t, "S00E01 - Episode", EpisodeBaseName(0, 1, ""))
}

func TestSanitizeName(t *testing.T) {
	type testCase struct {
		input string
		want  string
	}

	testCases := []testCase{
		{input: "Pilot", want: "Pilot"},
		{input: "Who Are You?", want: "Who Are You_"},
		{input: `a/b\c:d*e?f"g<h>i|j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{input: "Trailing dots...", want: "Trailing dots"},
		{input: "Trailing spaces   ", want: "Trailing spaces"},
		{input: "", want: "Episode"},
		{input: "...", want: "Episode"},
		{input: "   ", want: "Episode"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, SanitizeName(tc.input), "input %q", tc.input)
	}
}
