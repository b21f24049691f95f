package process

import (
	"fmt"
	"strings"
)

// Suffixes and prefixes a canonical name may not carry. A name ending in a
// derived-namespace suffix would share a physical namespace with another
// process; sqlite_ is reserved by the SQLite engine.
var (
	reservedSuffixes = []string{"_lists", "_graphs"}
	reservedPrefixes = []string{"sqlite_"}
)

func trimName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateName checks that a trimmed name can seed namespace derivation.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	lower := strings.ToLower(name)
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return fmt.Errorf("%w: name may not end with %q", ErrInvalidInput, suffix)
		}
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return fmt.Errorf("%w: name may not start with %q", ErrInvalidInput, prefix)
		}
	}
	return nil
}
