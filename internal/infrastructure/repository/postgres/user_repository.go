package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		OrderBy("username", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", userID))
}

// GetByTeamName matches team names case-insensitively.
func (r *UserRepository) GetByTeamName(ctx context.Context, teamName string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Expr("LOWER(team_name) = LOWER(?)", strings.TrimSpace(teamName)))
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return userFromRow(row), true, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:        row.ID,
		Username:  row.Username,
		TeamName:  row.TeamName,
		LogoURL:   row.LogoURL,
		CreatedAt: row.CreatedAt,
	}
}
