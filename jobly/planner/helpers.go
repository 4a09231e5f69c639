package planner

import "strings"

// quoteIdent wraps ident in double quotes, doubling any quote inside it.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
