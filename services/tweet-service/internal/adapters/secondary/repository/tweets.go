package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const tweetColumns = "id, user_id, content, is_deleted, likes_count, retweets_count, created_at, updated_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type TweetRepo struct {
	db *pgxpool.Pool
}

func NewTweetRepo(db *pgxpool.Pool) *TweetRepo {
	return &TweetRepo{db: db}
}

var _ ports.TweetRepository = (*TweetRepo)(nil)

func (r *TweetRepo) Save(ctx context.Context, t *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, user_id, content, is_deleted, likes_count, retweets_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Content, t.IsDeleted, t.LikesCount, t.RetweetsCount, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("db: insert tweet: %w", err)
	}
	return nil
}

// FindByID retourne aussi un tweet supprimé : c'est au service de le masquer.
func (r *TweetRepo) FindByID(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1`

	t, err := scanTweet(r.db.QueryRow(ctx, query, tweetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("tweet", tweetID)
		}
		return nil, fmt.Errorf("db: find tweet: %w", err)
	}
	return t, nil
}

// Update ne touche pas aux compteurs, gérés par les transactions likes/retweets.
func (r *TweetRepo) Update(ctx context.Context, t *domain.Tweet) error {
	query := `UPDATE tweets SET content = $1, is_deleted = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.db.Exec(ctx, query, t.Content, t.IsDeleted, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("db: update tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("tweet", t.ID)
	}
	return nil
}

// ListByAuthor : pagination OFFSET, plus récents d'abord, tweets supprimés exclus.
func (r *TweetRepo) ListByAuthor(ctx context.Context, userID string, limit, offset int) ([]*domain.Tweet, int64, error) {
	where := sq.Eq{"user_id": userID, "is_deleted": false}

	total, err := count(ctx, r.db, "tweets", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(tweetColumns).From("tweets").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db: list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*domain.Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db: scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db: list tweets: %w", err)
	}
	return tweets, total, nil
}

// --- Helpers ---

func scanTweet(row pgx.Row) (*domain.Tweet, error) {
	var t domain.Tweet
	err := row.Scan(&t.ID, &t.UserID, &t.Content, &t.IsDeleted, &t.LikesCount, &t.RetweetsCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func count(ctx context.Context, db *pgxpool.Pool, table string, where sq.Sqlizer) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int64
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db: count %s: %w", table, err)
	}
	return n, nil
}
