package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"api_id",
	"first_name",
	"last_name",
	"team_code",
	"position",
	"price",
	"initial_price",
	"is_u23",
	"birth_country",
	"regular_stats",
	"playoff_stats",
	"last_price_update_game_id",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	var conds []qb.Condition
	if filter.Position != "" {
		conds = append(conds, qb.Eq("position", string(filter.Position)))
	}
	if filter.Team != "" {
		conds = append(conds, qb.Eq("team_code", filter.Team))
	}
	if filter.Goalies != nil {
		if *filter.Goalies {
			conds = append(conds, qb.Eq("position", string(player.PositionGoalie)))
		} else {
			conds = append(conds, qb.Expr("position <> ?", string(player.PositionGoalie)))
		}
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(conds...).
		OrderBy("price DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	return playersFromRows(rows)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.In("id", stringSliceToAny(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isRetryableStatementError(err) {
			return r.getByIDsSingleParam(ctx, playerIDs)
		}
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return playersFromRows(rows)
}

func (r *PlayerRepository) getByIDsSingleParam(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Expr("id = ANY(?::text[])", pq.Array(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids fallback query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids fallback: %w", err)
	}
	return playersFromRows(rows)
}

func (r *PlayerRepository) UpdatePrices(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update player prices: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range players {
		query, args, err := qb.Update("players").
			Set("price", p.Price).
			Set("last_price_update_game_id", p.LastPriceUpdateGameID).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", p.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update player price query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update player price player=%s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update player prices tx: %w", err)
	}
	return nil
}

func playersFromRows(rows []playerTableModel) ([]player.Player, error) {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		p := player.Player{
			ID:                    row.ID,
			APIID:                 row.APIID,
			FirstName:             row.FirstName,
			LastName:              row.LastName,
			Team:                  row.TeamCode,
			Position:              player.Position(row.Position),
			Price:                 row.Price,
			InitialPrice:          row.InitialPrice,
			IsU23:                 row.IsU23,
			BirthCountry:          row.BirthCountry,
			LastPriceUpdateGameID: row.LastPriceUpdateGameID,
		}
		if err := decodeJSON(row.RegularStats, &p.Regular); err != nil {
			return nil, fmt.Errorf("decode regular stats player=%s: %w", row.ID, err)
		}
		if err := decodeJSON(row.PlayoffStats, &p.Playoff); err != nil {
			return nil, fmt.Errorf("decode playoff stats player=%s: %w", row.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func playerInsertFromDomain(p player.Player) (playerInsertModel, error) {
	regular, err := encodeJSON(p.Regular)
	if err != nil {
		return playerInsertModel{}, fmt.Errorf("encode regular stats player=%s: %w", p.ID, err)
	}
	playoff, err := encodeJSON(p.Playoff)
	if err != nil {
		return playerInsertModel{}, fmt.Errorf("encode playoff stats player=%s: %w", p.ID, err)
	}
	initial := p.InitialPrice
	if initial == 0 {
		initial = p.Price
	}
	return playerInsertModel{
		ID:                    p.ID,
		APIID:                 p.APIID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		TeamCode:              p.Team,
		Position:              string(p.Position),
		Price:                 p.Price,
		InitialPrice:          initial,
		IsU23:                 p.IsU23,
		BirthCountry:          p.BirthCountry,
		RegularStats:          regular,
		PlayoffStats:          playoff,
		LastPriceUpdateGameID: p.LastPriceUpdateGameID,
	}, nil
}

type GameLogRepository struct {
	db *sqlx.DB
}

func NewGameLogRepository(db *sqlx.DB) *GameLogRepository {
	return &GameLogRepository{db: db}
}

func (r *GameLogRepository) ListByPlayer(ctx context.Context, playerID string) ([]player.GameLog, error) {
	return r.list(ctx, qb.Eq("player_id", playerID))
}

func (r *GameLogRepository) ListAll(ctx context.Context) ([]player.GameLog, error) {
	return r.list(ctx)
}

func (r *GameLogRepository) list(ctx context.Context, conds ...qb.Condition) ([]player.GameLog, error) {
	query, args, err := qb.Select("*").From("player_game_logs").
		Where(conds...).
		OrderBy("player_id", "game_date", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game logs query: %w", err)
	}

	var rows []gameLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game logs: %w", err)
	}

	out := make([]player.GameLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.GameLog{
			PlayerID:     row.PlayerID,
			GameID:       row.GameID,
			GameDate:     row.GameDate,
			StartTimeUTC: row.StartTimeUTC.Time,
			IsGoalie:     row.IsGoalie,
			Goals:        row.Goals,
			Assists:      row.Assists,
			Points:       row.Points,
			PlusMinus:    row.PlusMinus,
			Wins:         row.Wins,
			Shutouts:     row.Shutouts,
			Saves:        row.Saves,
			ShotsAgainst: row.ShotsAgainst,
			GoalsAgainst: row.GoalsAgainst,
		})
	}
	return out, nil
}

func (r *GameLogRepository) Upsert(ctx context.Context, logs []player.GameLog) error {
	if len(logs) == 0 {
		return nil
	}

	models := make([]gameLogTableModel, 0, len(logs))
	for _, log := range logs {
		models = append(models, gameLogTableModel{
			PlayerID:     log.PlayerID,
			GameID:       log.GameID,
			GameDate:     log.GameDate,
			StartTimeUTC: sql.NullTime{Time: log.StartTimeUTC, Valid: !log.StartTimeUTC.IsZero()},
			IsGoalie:     log.IsGoalie,
			Goals:        log.Goals,
			Assists:      log.Assists,
			Points:       log.Points,
			PlusMinus:    log.PlusMinus,
			Wins:         log.Wins,
			Shutouts:     log.Shutouts,
			Saves:        log.Saves,
			ShotsAgainst: log.ShotsAgainst,
			GoalsAgainst: log.GoalsAgainst,
		})
	}

	query, args, err := qb.InsertModels("player_game_logs", models, `ON CONFLICT (player_id, game_id)
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    start_time_utc = COALESCE(EXCLUDED.start_time_utc, player_game_logs.start_time_utc),
    is_goalie = EXCLUDED.is_goalie,
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    points = EXCLUDED.points,
    plus_minus = EXCLUDED.plus_minus,
    wins = EXCLUDED.wins,
    shutouts = EXCLUDED.shutouts,
    saves = EXCLUDED.saves,
    shots_against = EXCLUDED.shots_against,
    goals_against = EXCLUDED.goals_against`)
	if err != nil {
		return fmt.Errorf("build upsert game logs query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game logs: %w", err)
	}
	return nil
}
