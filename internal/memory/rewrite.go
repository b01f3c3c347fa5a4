package memory

import "strings"

// pronounForms are matched as whole words so "it" never rewrites the
// middle of "monitor" or "switch".
var pronounForms = []string{"the application", "the app", "that", "this", "it"}

// RewriteReferences substitutes pronoun-style references with the most
// recent app identifier, so "close it" becomes "close chrome" before
// intent matching. Text without a resolvable referent is returned
// unchanged; the router reports the ambiguity instead.
func (s *Store) RewriteReferences(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !containsPronoun(lower) {
		return text, false
	}
	entry, err := s.ResolvePreferring(KindApp)
	if err != nil {
		return text, false
	}

	fields := strings.Fields(lower)
	rewritten := false
	// Multi-word forms first so "the app" is not half-replaced.
	joined := " " + strings.Join(fields, " ") + " "
	for _, form := range pronounForms {
		needle := " " + form + " "
		if strings.Contains(joined, needle) {
			joined = strings.ReplaceAll(joined, needle, " "+entry.Identifier+" ")
			rewritten = true
		}
	}
	if !rewritten {
		return text, false
	}
	return strings.TrimSpace(joined), true
}

func containsPronoun(lower string) bool {
	padded := " " + strings.Join(strings.Fields(lower), " ") + " "
	for _, form := range pronounForms {
		if strings.Contains(padded, " "+form+" ") {
			return true
		}
	}
	return false
}
