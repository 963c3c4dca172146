package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

const (
	defaultSearchLimit = 10
	maxSearchTypos     = 3
)

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// ListSkaters lists non-goalies, optionally narrowed by position and team.
func (s *PlayerService) ListSkaters(ctx context.Context, position, teamCode string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListSkaters")
	defer span.End()

	pos := player.Position(strings.ToUpper(strings.TrimSpace(position)))
	if pos != "" {
		if _, ok := player.AllPositions[pos]; !ok || pos.IsGoalie() {
			return nil, fmt.Errorf("%w: invalid skater position %q", ErrInvalidInput, position)
		}
	}

	goalies := false
	items, err := s.playerRepo.List(ctx, player.Filter{
		Position: pos,
		Team:     strings.ToUpper(strings.TrimSpace(teamCode)),
		Goalies:  &goalies,
	})
	if err != nil {
		return nil, fmt.Errorf("list skaters: %w", err)
	}

	return items, nil
}

func (s *PlayerService) ListGoalies(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListGoalies")
	defer span.End()

	goalies := true
	items, err := s.playerRepo.List(ctx, player.Filter{Goalies: &goalies})
	if err != nil {
		return nil, fmt.Errorf("list goalies: %w", err)
	}

	return items, nil
}

// Search ranks players by fuzzy match of the query against their full name.
func (s *PlayerService) Search(ctx context.Context, query string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	items, err := s.playerRepo.List(ctx, player.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.FullName()
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		ranks = closeMisspellings(query, names)
	}
	sort.Stable(ranks)

	out := make([]player.Player, 0, min(limit, len(ranks)))
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, items[r.OriginalIndex])
	}
	return out, nil
}

// closeMisspellings catches typos that subsequence matching misses by
// comparing the query with each name part.
func closeMisspellings(query string, names []string) fuzzy.Ranks {
	query = strings.ToLower(query)
	var out fuzzy.Ranks
	for i, name := range names {
		best := -1
		for _, part := range append(strings.Fields(name), name) {
			d := fuzzy.LevenshteinDistance(query, strings.ToLower(part))
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= maxSearchTypos {
			out = append(out, fuzzy.Rank{Source: query, Target: name, Distance: best, OriginalIndex: i})
		}
	}
	return out
}
