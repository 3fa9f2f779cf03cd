package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = time.DateOnly

// EncodeToken creates a base64 encoded keyset token from the transaction date
// and ID of the last row on a page.
func EncodeToken(txnDate time.Time, txnID int64) string {
	tokenStr := fmt.Sprintf("%s|%d", txnDate.Format(dateFormat), txnID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into transaction date and ID.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	txnDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	txnID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || txnID <= 0 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (id parse)")
	}

	return txnDate, txnID, nil
}
