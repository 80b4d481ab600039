package models

import (
	"testing"

	"cinelist/proj/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"matrix", "matrix"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\films`, `c:\\films`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), "input %q", tt.in)
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	parsed, err := parseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "42", "not-a-uuid", "../etc"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, storage.ErrNotFound, "input %q", bad)
	}
}
