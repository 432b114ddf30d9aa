package client

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// statementIDLength is the number of characters in a statement ID.
	// 36^10 possible values make collisions between concurrently in-flight
	// validations negligible.
	statementIDLength = 10

	// statementIDCharset restricts IDs to uppercase alphanumerics so they
	// are always safe to embed in an EXPLAIN PLAN statement.
	statementIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randSource supplies entropy for statement IDs; tests substitute it.
var randSource io.Reader = rand.Reader

// NewStatementID generates a random statement identifier used to tag rows
// in PLAN_TABLE. The plan table is shared by every session that runs
// EXPLAIN PLAN, so each validation must read back only rows carrying its
// own tag.
func NewStatementID() (string, error) {
	charsetLen := big.NewInt(int64(len(statementIDCharset)))
	buf := make([]byte, statementIDLength)
	for i := range buf {
		n, err := rand.Int(randSource, charsetLen)
		if err != nil {
			return "", fmt.Errorf("generating statement id: %w", err)
		}
		buf[i] = statementIDCharset[n.Int64()]
	}
	return string(buf), nil
}
