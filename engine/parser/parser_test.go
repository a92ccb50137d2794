package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathoo/aion/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "status",
			input: "status",
			want:  types.Intent{Verb: "status"},
		},
		{
			name:  "moves",
			input: "moves",
			want:  types.Intent{Verb: "moves"},
		},
		{
			name:  "pass",
			input: "pass",
			want:  types.Intent{Verb: "pass"},
		},

		// Aliases
		{
			name:  "st → status",
			input: "st",
			want:  types.Intent{Verb: "status"},
		},
		{
			name:  "q → queue",
			input: "q",
			want:  types.Intent{Verb: "queue"},
		},
		{
			name:  "skip → pass",
			input: "skip",
			want:  types.Intent{Verb: "pass"},
		},
		{
			name:  "cast → use",
			input: "cast zio on pixie",
			want:  types.Intent{Verb: "use", Object: "zio", Targets: []string{"pixie"}},
		},

		// Use forms
		{
			name:  "use without targets",
			input: "use megido",
			want:  types.Intent{Verb: "use", Object: "megido"},
		},
		{
			name:  "use on one target",
			input: "use agi on slime",
			want:  types.Intent{Verb: "use", Object: "agi", Targets: []string{"slime"}},
		},
		{
			name:  "comma separated targets",
			input: "use mazio on slime, slime#2,slime#3",
			want:  types.Intent{Verb: "use", Object: "mazio", Targets: []string{"slime", "slime#2", "slime#3"}},
		},
		{
			name:  "and separated targets",
			input: "use dia on hero and ally",
			want:  types.Intent{Verb: "use", Object: "dia", Targets: []string{"hero", "ally"}},
		},
		{
			name:  "multi-word move and article",
			input: "use the power charge on the oni",
			want:  types.Intent{Verb: "use", Object: "power charge", Targets: []string{"oni"}},
		},
		{
			name:  "mixed case and spacing",
			input: "  USE  Bufu   AT  Jack Frost ",
			want:  types.Intent{Verb: "use", Object: "bufu", Targets: []string{"jack frost"}},
		},
		{
			name:  "preposition without targets",
			input: "use zio on",
			want:  types.Intent{Verb: "use", Object: "zio"},
		},
		{
			name:  "unknown verb passes through",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Object: "wildly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}
