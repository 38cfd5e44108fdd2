package validate

import "strings"

// Trim removes surrounding whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// LowerCase canonicalizes an email address.
func LowerCase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}
