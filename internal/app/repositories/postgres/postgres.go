// Package postgres implements the repositories on PostgreSQL using pgx and squirrel.
package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// DBTX is the subset of a pgx pool the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// NewRepositories wires all repositories over pool.
func NewRepositories(pool *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Driver:             "postgres",
		UserRepository:     NewUserRepository(pool),
		DonationRepository: NewDonationRepository(pool),
		PostRepository:     NewPostRepository(pool),
		Ping:               pool.Ping,
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrInvalidID
	}
	return nil
}
