package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "txn-42",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date), "Date should match after decode")
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestEncodeToken_NormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2024, 1, 1, 5, 0, 0, 0, loc)

	decoded, err := DecodeToken(EncodeToken(Cursor{Date: local, CreatedAt: local, ID: "a"}))
	require.NoError(t, err)
	assert.True(t, local.Equal(decoded.Date))
	assert.Equal(t, time.UTC, decoded.Date.Location())
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!"},
		{"missing fields", base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))},
		{"missing id", base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"))},
		{"bad date", base64.RawURLEncoding.EncodeToString([]byte("yesterday|2023-05-15T00:00:00Z|a"))},
		{"bad created at", base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|later|a"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestCursor_Before(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, CreatedAt: created, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), created, "z"), "older date belongs to a later page")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), created, "a"), "newer date belongs to an earlier page")
	assert.True(t, c.Before(day, created.Add(-time.Second), "z"))
	assert.True(t, c.Before(day, created, "a"), "id breaks the tie")
	assert.False(t, c.Before(day, created, "m"), "the cursor row itself is excluded")
}
