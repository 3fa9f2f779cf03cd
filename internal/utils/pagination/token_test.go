package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	txnDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(txnDate, 4821)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, txnDate, decodedDate)
	assert.Equal(t, int64(4821), decodedID)

	// Time of day is dropped; only the calendar date survives.
	withClock := time.Date(2023, 5, 15, 14, 30, 45, 0, time.UTC)
	decodedDate, _, err = DecodeToken(EncodeToken(withClock, 1))
	require.NoError(t, err)
	assert.Equal(t, txnDate, decodedDate)
}

func TestDecodeTokenError(t *testing.T) {
	enc := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"invalid base64", "this is not base64!", "base64 decode"},
		{"missing separator", enc("2023-05-15"), "split"},
		{"bad date", enc("notadate|12"), "date parse"},
		{"bad id", enc("2023-05-15|abc"), "id parse"},
		{"non-positive id", enc("2023-05-15|0"), "id parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
