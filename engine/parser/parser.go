// Package parser converts battle commands into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/aion/types"
)

var verbAliases = map[string]string{
	// Use a move
	"u":      "use",
	"cast":   "use",
	"attack": "use",
	"do":     "use",

	// Give up the rest of the side's points
	"skip": "pass",
	"wait": "pass",
	"end":  "pass",
	"z":    "pass",

	// Inspection
	"st":     "status",
	"stats":  "status",
	"s":      "status",
	"m":      "moves",
	"skills": "moves",
	"q":      "queue",
	"order":  "queue",
	"turn":   "queue",
	"h":      "help",
	"?":      "help",
}

// Words that separate the move from its targets.
var prepositions = map[string]bool{
	"on": true, "at": true, "to": true, "against": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
//
//	use agi on pixie, slime#2   -> {use agi [pixie slime#2]}
//	cast dia on hero and ally   -> {use dia [hero ally]}
//	use megido                  -> {use megido []}
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	object, targets := splitOnPreposition(rest)

	return types.Intent{
		Verb:    verb,
		Object:  object,
		Targets: targets,
	}
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition. Words before it
// form the object; words after it are a list of targets separated by commas
// or "and". Without a preposition all words form the object.
func splitOnPreposition(words []string) (object string, targets []string) {
	for i, w := range words {
		if prepositions[w] {
			return strings.Join(words[:i], " "), splitTargets(words[i+1:])
		}
	}
	return strings.Join(words, " "), nil
}

func splitTargets(words []string) []string {
	joined := strings.Join(words, " ")
	joined = strings.ReplaceAll(joined, " and ", ",")

	var targets []string
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			targets = append(targets, part)
		}
	}
	return targets
}
