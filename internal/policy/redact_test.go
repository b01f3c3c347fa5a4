package policy

import "testing"

func TestScrubForAudit(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"open chrome", "open chrome", false},
		{"email bob@example.com about it", "email [email] about it", true},
		{"search for 4111 1111 1111 1111", "search for [card]", true},
		{"call +92 300 1234567", "call [phone]", true},
		{"", "", false},
	}
	for _, tc := range cases {
		got, changed := ScrubForAudit(tc.in)
		if got != tc.want || changed != tc.changed {
			t.Fatalf("ScrubForAudit(%q) = (%q, %v), want (%q, %v)", tc.in, got, changed, tc.want, tc.changed)
		}
	}
}
