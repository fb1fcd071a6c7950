package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var emailFolder = cases.Fold()

// NormalizeUser canonicalises an email identity: trimmed and case-folded.
func NormalizeUser(email string) (string, error) {
	u := emailFolder.String(strings.TrimSpace(email))
	if u == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	return u, nil
}
