// Package cache decorates read-mostly repositories with the in-process
// store. Every read hands out a fresh slice so callers cannot mutate cached
// data.
package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	basecache "github.com/Joona374/BracketChallenge2.0/internal/platform/cache"
)

const (
	playerKeyPrefix  = "player:"
	matchupKeyPrefix = "matchup:"
	resultKeyPrefix  = "result:"
)

var (
	_ team.Repository           = (*TeamRepository)(nil)
	_ user.Repository           = (*UserRepository)(nil)
	_ player.Repository         = (*PlayerRepository)(nil)
	_ bracket.MatchupRepository = (*MatchupRepository)(nil)
	_ bracket.ResultRepository  = (*ResultRepository)(nil)
)

// lookup remembers misses as well as hits.
type lookup[T any] struct {
	value  T
	exists bool
}

func loadList[T any](ctx context.Context, store *basecache.Store, key string, fn func(context.Context) ([]T, error)) ([]T, error) {
	items, err := basecache.Load(ctx, store, key, func(ctx context.Context) ([]T, error) {
		items, err := fn(ctx)
		return slices.Clone(items), err
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func loadOne[T any](ctx context.Context, store *basecache.Store, key string, fn func(context.Context) (T, bool, error)) (T, bool, error) {
	got, err := basecache.Load(ctx, store, key, func(ctx context.Context) (lookup[T], error) {
		v, ok, err := fn(ctx)
		return lookup[T]{value: v, exists: ok}, err
	})
	return got.value, got.exists, err
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return loadList(ctx, r.cache, "team:list", r.next.List)
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	key := "team:code:" + strings.ToUpper(strings.TrimSpace(code))
	return loadOne(ctx, r.cache, key, func(ctx context.Context) (team.Team, bool, error) {
		return r.next.GetByCode(ctx, code)
	})
}

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	return loadList(ctx, r.cache, "user:list", r.next.List)
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return loadOne(ctx, r.cache, "user:id:"+userID, func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByID(ctx, userID)
	})
}

func (r *UserRepository) GetByTeamName(ctx context.Context, teamName string) (user.User, bool, error) {
	key := "user:team:" + strings.ToLower(strings.TrimSpace(teamName))
	return loadOne(ctx, r.cache, key, func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByTeamName(ctx, teamName)
	})
}

// PlayerRepository caches listings until the next price update.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	return loadList(ctx, r.cache, playerFilterKey(filter), func(ctx context.Context) ([]player.Player, error) {
		return r.next.List(ctx, filter)
	})
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	key := playerKeyPrefix + "ids:" + strings.Join(ids, ",")
	return loadList(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.GetByIDs(ctx, playerIDs)
	})
}

func (r *PlayerRepository) UpdatePrices(ctx context.Context, players []player.Player) error {
	if err := r.next.UpdatePrices(ctx, players); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return nil
}

func playerFilterKey(filter player.Filter) string {
	goalies := "any"
	if filter.Goalies != nil {
		goalies = strconv.FormatBool(*filter.Goalies)
	}
	return playerKeyPrefix + "list:" + string(filter.Position) + ":" + strings.ToUpper(filter.Team) + ":" + goalies
}

type MatchupRepository struct {
	next  bracket.MatchupRepository
	cache *basecache.Store
}

func NewMatchupRepository(next bracket.MatchupRepository, cache *basecache.Store) *MatchupRepository {
	return &MatchupRepository{next: next, cache: cache}
}

func matchupRoundKey(round bracket.Round) string {
	return matchupKeyPrefix + "round:" + strconv.Itoa(int(round))
}

func (r *MatchupRepository) ListByRound(ctx context.Context, round bracket.Round) ([]bracket.Matchup, error) {
	return loadList(ctx, r.cache, matchupRoundKey(round), func(ctx context.Context) ([]bracket.Matchup, error) {
		return r.next.ListByRound(ctx, round)
	})
}

func (r *MatchupRepository) ReplaceRound(ctx context.Context, round bracket.Round, matchups []bracket.Matchup) error {
	if err := r.next.ReplaceRound(ctx, round, matchups); err != nil {
		return err
	}
	r.cache.Delete(ctx, matchupRoundKey(round))
	return nil
}

type ResultRepository struct {
	next  bracket.ResultRepository
	cache *basecache.Store
}

func NewResultRepository(next bracket.ResultRepository, cache *basecache.Store) *ResultRepository {
	return &ResultRepository{next: next, cache: cache}
}

func (r *ResultRepository) List(ctx context.Context) ([]bracket.Result, error) {
	return loadList(ctx, r.cache, resultKeyPrefix+"list", r.next.List)
}

func (r *ResultRepository) ListByRound(ctx context.Context, round bracket.Round) ([]bracket.Result, error) {
	key := resultKeyPrefix + "round:" + strconv.Itoa(int(round))
	return loadList(ctx, r.cache, key, func(ctx context.Context) ([]bracket.Result, error) {
		return r.next.ListByRound(ctx, round)
	})
}

func (r *ResultRepository) Upsert(ctx context.Context, results []bracket.Result) error {
	if err := r.next.Upsert(ctx, results); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, resultKeyPrefix)
	return nil
}

// Delete leaves the cache alone when nothing was removed.
func (r *ResultRepository) Delete(ctx context.Context, matchupCode string) (bool, error) {
	deleted, err := r.next.Delete(ctx, matchupCode)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.DeletePrefix(ctx, resultKeyPrefix)
	}
	return deleted, nil
}
