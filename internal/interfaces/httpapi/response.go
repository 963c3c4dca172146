package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

// Responses follow the Google JSON style guide: {"apiVersion","data"} on
// success and {"apiVersion","error"} otherwise.
const (
	apiVersion  = "2.0"
	errorDomain = "bracket-challenge"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// mappedError is the HTTP face of an error: status code, camelCase reason
// and canonical status name.
type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

	// errorRules is checked in order; the first errors.Is match wins.
	errorRules = []struct {
		target error
		mapped mappedError
	}{
		{usecase.ErrInvalidInput, badRequest("invalidInput")},
		{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
		{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
		{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
		{lineup.ErrOverBudget, badRequest("overBudget")},
		{lineup.ErrNoTradesLeft, badRequest("tradeLimit")},
		{lineup.ErrLineupLocked, badRequest("lineupLocked")},
		{lineup.ErrGracePeriod, badRequest("gracePeriod")},
		{lineup.ErrSlotEmpty, badRequest("slotEmpty")},
		{lineup.ErrPositionMismatch, badRequest("positionMismatch")},
		{lineup.ErrDuplicatePlayer, badRequest("duplicatePlayer")},
		{lineup.ErrUnknownSlot, badRequest("invalidSlot")},
		{lineup.ErrNoOpenSlot, badRequest("invalidSlot")},
		{prediction.ErrInvalidPicks, badRequest("invalidPicks")},
		{bracket.ErrInvalidMatchups, badRequest("invalidMatchups")},
		{bracket.ErrInvalidResult, badRequest("invalidResult")},
		{bracket.ErrUnknownMatchup, badRequest("unknownMatchup")},
	}
)

func badRequest(reason string) mappedError {
	return mappedError{HTTPStatus: http.StatusBadRequest, Reason: reason, Status: "INVALID_ARGUMENT"}
}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalError
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(payload); err != nil {
		logging.Default().WarnContext(ctx, "encode response failed", "status", status, "error", err)
	}
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError exposes err's message to the client; unexpected errors should go
// through writeInternalError instead.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeMapped(ctx, w, mapError(err), err.Error())
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeMapped(ctx, w, internalError, "internal server error")
}

func writeMapped(ctx context.Context, w http.ResponseWriter, m mappedError, msg string) {
	writeJSON(ctx, w, m.HTTPStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    m.HTTPStatus,
			Message: msg,
			Status:  m.Status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: m.Reason, Message: msg}},
		},
	})
}
