package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"title":"x"}`, `{"title":"x"}`},
		{"```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"```\n[\"a\",\"b\"]\n```", `["a","b"]`},
		{"  [1,2]  ", `[1,2]`},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanJSON(tc.in))
	}
}

func TestExtractText_Empty(t *testing.T) {
	_, err := extractText(nil)
	assert.ErrorContains(t, err, "empty response")
}
