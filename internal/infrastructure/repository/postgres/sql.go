package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isBindParameterMismatch matches the pq error raised when a pooled
// connection reuses an unnamed statement prepared for a different query.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "requires")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") || strings.Contains(msg, "(26000)")
}

// isRetryableStatementError reports pgbouncer style statement errors that
// succeed when the query is sent again on a fresh statement.
func isRetryableStatementError(err error) bool {
	return isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func encodeJSON(value any) (string, error) {
	raw, err := sonic.MarshalString(value)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func decodeJSON(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return sonic.Unmarshal(raw, out)
}
