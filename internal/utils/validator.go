package utils

import (
	"regexp"
	"strings"
)

const MaxReviewTextLength = 2000

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

func IsValidPassword(password string) bool {
	return len(password) >= 8
}

func IsValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 20
}

func IsValidRole(role string) bool {
	validRoles := []string{"admin", "user"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// IsValidReviewText requires a non-empty body (after trimming) within the
// length bound.
func IsValidReviewText(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed != "" && len(trimmed) <= MaxReviewTextLength
}
