package repository

import (
	"context"
	"embed"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const followColumns = "id, follower_id, following_id, created_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

var _ ports.FollowRepository = (*PostgresRepo)(nil)

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	return postgres.Migrate(ctx, r.db, Migrations, "migrations")
}

func (r *PostgresRepo) Create(ctx context.Context, f *domain.Follow) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO follows (id, follower_id, following_id, created_at) VALUES ($1, $2, $3, $4)`,
		f.ID, f.FollowerID, f.FollowingID, f.CreatedAt,
	)
	if _, ok := postgres.IsUniqueViolation(err); ok {
		return apperr.Uniqueness("followingId", "already following this user")
	}
	if err != nil {
		return fmt.Errorf("db: insert follow: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, followerID, followingID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("db: delete follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("follow", followerID+"->"+followingID)
	}
	return nil
}

func (r *PostgresRepo) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db: exists follow: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepo) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error) {
	return r.list(ctx, sq.Eq{"following_id": userID}, limit, offset)
}

func (r *PostgresRepo) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error) {
	return r.list(ctx, sq.Eq{"follower_id": userID}, limit, offset)
}

func (r *PostgresRepo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, sq.Eq{"following_id": userID})
}

func (r *PostgresRepo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, sq.Eq{"follower_id": userID})
}

// GetRelationStatus vérifie les deux sens en une seule requête.
func (r *PostgresRepo) GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2),
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $2 AND following_id = $1)
	`
	var st domain.RelationStatus
	if err := r.db.QueryRow(ctx, query, actorID, targetID).Scan(&st.IsFollowing, &st.IsFollowedBy); err != nil {
		return nil, fmt.Errorf("db: relation status: %w", err)
	}
	return &st, nil
}

// --- Helpers ---

func (r *PostgresRepo) count(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").From("follows").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db: count follows: %w", err)
	}
	return n, nil
}

func (r *PostgresRepo) list(ctx context.Context, where sq.Eq, limit, offset int) ([]*domain.Follow, int64, error) {
	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(followColumns).From("follows").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db: list follows: %w", err)
	}
	defer rows.Close()

	var follows []*domain.Follow
	for rows.Next() {
		var f domain.Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db: scan follow: %w", err)
		}
		f.CreatedAt = f.CreatedAt.UTC()
		follows = append(follows, &f)
	}
	return follows, total, rows.Err()
}
