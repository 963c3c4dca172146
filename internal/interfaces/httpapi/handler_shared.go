package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func queryUserID(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("user_id"))
}

// parseRound reads ?round=N. A missing value is round 0.
func parseRound(r *http.Request) (bracket.Round, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("round"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: round must be an integer", usecase.ErrInvalidInput)
	}
	round := bracket.Round(n)
	if !round.Valid() {
		return 0, fmt.Errorf("%w: round must be between 1 and 4", usecase.ErrInvalidInput)
	}
	return round, nil
}

// wireID is an identifier clients send as a JSON string, an integer, or an
// object carrying an "id" field. null decodes to "".
type wireID string

func (v *wireID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*v = ""
	case raw[0] == '"':
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return err
		}
		*v = wireID(strings.TrimSpace(s))
	case raw[0] == '{':
		var obj struct {
			ID wireID `json:"id"`
		}
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return err
		}
		*v = obj.ID
	default:
		if _, err := strconv.ParseInt(string(raw), 10, 64); err != nil {
			return fmt.Errorf("identifier must be a string or an integer, got %s", raw)
		}
		*v = wireID(raw)
	}
	return nil
}

func (v wireID) String() string {
	return string(v)
}
