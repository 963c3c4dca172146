package usecase

import (
	"context"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

// Event subjects, relative to the publisher's prefix.
const (
	EventResultsSaved          = "results.saved"
	EventResultsDeleted        = "results.deleted"
	EventLineupSaved           = "lineup.saved"
	EventLeaderboardRecomputed = "leaderboard.recomputed"
)

// EventPublisher announces state changes to other services.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

// NoopPublisher drops every event.
func NoopPublisher() EventPublisher {
	return noopPublisher{}
}

// publishBestEffort never fails the caller; a failed publish is only logged.
func publishBestEffort(ctx context.Context, publisher EventPublisher, logger *logging.Logger, subject string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, subject, payload); err != nil {
		logger.WarnContext(ctx, "publish event failed", "subject", subject, "error", err)
	}
}

type ResultsSavedEvent struct {
	Round        int      `json:"round"`
	MatchupCodes []string `json:"matchupCodes"`
}

type ResultDeletedEvent struct {
	MatchupCode string `json:"matchupCode"`
}

type LineupSavedEvent struct {
	UserID          string `json:"userId"`
	TradesUsed      int    `json:"tradesUsed"`
	RemainingTrades int    `json:"remainingTrades"`
	Locked          bool   `json:"locked"`
}

type LeaderboardRecomputedEvent struct {
	Users        int    `json:"users"`
	CalculatedAt string `json:"calculatedAt"`
}
