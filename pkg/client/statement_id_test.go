package client

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader errors on every read.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestNewStatementID_Format(t *testing.T) {
	id, err := NewStatementID()
	require.NoError(t, err)

	assert.Len(t, id, statementIDLength)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(statementIDCharset, r),
			"unexpected character %q in statement id %q", r, id)
	}
}

func TestNewStatementID_SourceFailure(t *testing.T) {
	orig := randSource
	randSource = failingReader{}
	t.Cleanup(func() { randSource = orig })

	_, err := NewStatementID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating statement id")
}

func TestNewStatementID_Unique(t *testing.T) {
	const samples = 1000

	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		id, err := NewStatementID()
		require.NoError(t, err)

		_, dup := seen[id]
		require.False(t, dup, "duplicate statement id %q", id)
		seen[id] = struct{}{}
	}
}
