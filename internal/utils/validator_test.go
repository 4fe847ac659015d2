package utils

import (
	"strings"
	"testing"
)

func TestIsValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := IsValidRating(rating); got != want {
			t.Errorf("IsValidRating(%d) = %v, want %v", rating, got, want)
		}
	}
}

func TestIsValidReviewText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "  \n\t ", false},
		{"simple", "Great movie.", true},
		{"at limit", strings.Repeat("a", MaxReviewTextLength), true},
		{"over limit", strings.Repeat("a", MaxReviewTextLength+1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidReviewText(tc.text); got != tc.want {
				t.Errorf("IsValidReviewText = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"user@example.com":  true,
		"u.s-er@sub.dom.co": true,
		"not-an-email":      false,
		"@example.com":      false,
		"user@":             false,
	} {
		if got := IsValidEmail(email); got != want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	for username, want := range map[string]bool{
		"ab":                    false,
		"abc":                   true,
		strings.Repeat("a", 20): true,
		strings.Repeat("a", 21): false,
	} {
		if got := IsValidUsername(username); got != want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", username, got, want)
		}
	}
}
