package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTechnologies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "drops empty segments and trims", raw: "React, Node.js, , PostgreSQL ", want: []string{"React", "Node.js", "PostgreSQL"}},
		{name: "single entry", raw: "Go", want: []string{"Go"}},
		{name: "empty text", raw: "", want: []string{}},
		{name: "only separators", raw: " , ,, ", want: []string{}},
		{name: "keeps input order and duplicates", raw: "b,a,b", want: []string{"b", "a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTechnologies(tc.raw))
		})
	}
}
