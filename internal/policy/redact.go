// Package policy scrubs personal data out of text before it is
// persisted. Spoken commands occasionally carry dictated emails, phone
// numbers or card numbers ("search for my card 4111 ...") and none of
// that belongs in the command log.
package policy

import "regexp"

type rule struct {
	pattern *regexp.Regexp
	mask    string
}

// Card redaction runs before phone so a dictated card number is not
// half-matched as a phone number.
var auditRules = []rule{
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[email]"},
	{regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[card]"},
	{regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`), "[phone]"},
}

// ScrubForAudit masks personal data in text bound for the command log.
// The routed text itself is never altered, only the persisted copy.
func ScrubForAudit(text string) (scrubbed string, changed bool) {
	out := text
	for _, r := range auditRules {
		next := r.pattern.ReplaceAllString(out, r.mask)
		changed = changed || next != out
		out = next
	}
	return out, changed
}
