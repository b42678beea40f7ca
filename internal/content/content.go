package content

import (
	"errors"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy = bluemonday.UGCPolicy()

	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// Clean strips unsafe HTML from message text before it enters local state.
// The server should already do this, but the client does not trust the
// stream it is fed.
func Clean(text string) string {
	return strings.TrimSpace(policy.Sanitize(text))
}

// ValidateName checks a channel name or user handle: non-empty, only
// alphanumeric, dot, dash and underscore. Events carrying anything else are
// treated as malformed.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return errors.New("name contains invalid characters (allowed: alphanumeric, dot, dash, underscore)")
	}
	return nil
}
