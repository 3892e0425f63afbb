// Package guard rejects statements that look like they write.
//
// The policy is a crude lexical filter: any occurrence of a forbidden
// keyword anywhere in the text, in any case, rejects the statement. It does
// not parse SQL, so it over-rejects (string literals, "settings",
// "updated_at") and can be evaded by obfuscation. It is a safety net in
// front of the driver's own read-only mode, not a security boundary.
package guard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/koustreak/sqlconsole/internal/errs"
)

// Keywords is the forbidden set, matched as bare substrings.
var Keywords = []string{"delete", "drop", "insert", "replace", "set", "update"}

var forbidden = regexp.MustCompile(`(?i)` + strings.Join(Keywords, "|"))

// Message is the user-visible text for a rejected statement.
func Message(keyword string) string {
	return fmt.Sprintf("Only read-only queries are allowed (query contains a forbidden keyword: %s)", keyword)
}

// Check fails with ErrKindReadOnlyViolation when sql contains a forbidden
// keyword. The keyword reported is the leftmost one in the text.
func Check(sql string) error {
	kw := forbidden.FindString(sql)
	if kw == "" {
		return nil
	}
	return errs.New(errs.ErrKindReadOnlyViolation, Message(strings.ToLower(kw)))
}
