package tools

import (
	"regexp"
	"strings"
)

// writeKeywords are SQL keywords that indicate write operations. They are
// matched at the beginning of a statement, after leading whitespace and
// comments.
var writeKeywords = []string{
	"INSERT",
	"UPDATE",
	"DELETE",
	"DROP",
	"CREATE",
	"ALTER",
	"TRUNCATE",
	"GRANT",
	"REVOKE",
	"MERGE",
	"CALL",
	"EXECUTE",
}

// writePattern matches statements that start with a write keyword,
// tolerating leading whitespace and comment styles.
var writePattern = regexp.MustCompile(
	`(?i)^\s*(?:--[^\n]*\n\s*|/\*[\s\S]*?\*/\s*)*\s*(` +
		strings.Join(writeKeywords, "|") +
		`)(?:\s|$|;|\()`,
)

// isWriteStatement reports whether the SQL statement is a write operation.
func isWriteStatement(sql string) bool {
	return writePattern.MatchString(strings.TrimSpace(sql))
}
