package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"keeps first-seen order", []string{"b", "a", "b", "c", "a"}, []string{"b", "a", "c"}},
		{"drops empties", []string{"", "a", ""}, []string{"a"}},
		{"all duplicates", []string{"x", "x", "x"}, []string{"x"}},
		{"nil input", nil, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTags(tc.in))
		})
	}
}
