package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

// --- LIKES ---

type LikeRepo struct {
	db *pgxpool.Pool
}

func NewLikeRepo(db *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{db: db}
}

var _ ports.LikeRepository = (*LikeRepo)(nil)

// Create insère le like et incrémente likes_count dans la même transaction.
func (r *LikeRepo) Create(ctx context.Context, l *domain.Like) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO likes (id, tweet_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
			l.ID, l.TweetID, l.UserID, l.CreatedAt,
		)
		if err != nil {
			return err
		}
		return bumpCounter(ctx, tx, "likes_count", l.TweetID, 1)
	})
	return engagementError(err, "like", "user has already liked this tweet")
}

// Delete supprime le like et décrémente likes_count ; NotFound si absent.
func (r *LikeRepo) Delete(ctx context.Context, tweetID, userID string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE tweet_id = $1 AND user_id = $2`, tweetID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("like", tweetID+"/"+userID)
		}
		return bumpCounter(ctx, tx, "likes_count", tweetID, -1)
	})
	return engagementError(err, "like", "")
}

func (r *LikeRepo) Exists(ctx context.Context, tweetID, userID string) (bool, error) {
	return exists(ctx, r.db, "likes", tweetID, userID)
}

func (r *LikeRepo) ListByTweet(ctx context.Context, tweetID string, limit, offset int) ([]*domain.Like, int64, error) {
	where := sq.Eq{"tweet_id": tweetID}
	total, err := count(ctx, r.db, "likes", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select("id, tweet_id, user_id, created_at").From("likes").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db: list likes: %w", err)
	}
	defer rows.Close()

	var likes []*domain.Like
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.ID, &l.TweetID, &l.UserID, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db: scan like: %w", err)
		}
		l.CreatedAt = l.CreatedAt.UTC()
		likes = append(likes, &l)
	}
	return likes, total, rows.Err()
}

// --- RETWEETS ---

type RetweetRepo struct {
	db *pgxpool.Pool
}

func NewRetweetRepo(db *pgxpool.Pool) *RetweetRepo {
	return &RetweetRepo{db: db}
}

var _ ports.RetweetRepository = (*RetweetRepo)(nil)

func (r *RetweetRepo) Create(ctx context.Context, rt *domain.Retweet) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO retweets (id, tweet_id, user_id, comment, created_at) VALUES ($1, $2, $3, $4, $5)`,
			rt.ID, rt.TweetID, rt.UserID, rt.Comment, rt.CreatedAt,
		)
		if err != nil {
			return err
		}
		return bumpCounter(ctx, tx, "retweets_count", rt.TweetID, 1)
	})
	return engagementError(err, "retweet", "user has already retweeted this tweet")
}

func (r *RetweetRepo) Delete(ctx context.Context, tweetID, userID string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM retweets WHERE tweet_id = $1 AND user_id = $2`, tweetID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("retweet", tweetID+"/"+userID)
		}
		return bumpCounter(ctx, tx, "retweets_count", tweetID, -1)
	})
	return engagementError(err, "retweet", "")
}

func (r *RetweetRepo) Exists(ctx context.Context, tweetID, userID string) (bool, error) {
	return exists(ctx, r.db, "retweets", tweetID, userID)
}

func (r *RetweetRepo) ListByTweet(ctx context.Context, tweetID string, limit, offset int) ([]*domain.Retweet, int64, error) {
	where := sq.Eq{"tweet_id": tweetID}
	total, err := count(ctx, r.db, "retweets", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select("id, tweet_id, user_id, comment, created_at").From("retweets").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db: list retweets: %w", err)
	}
	defer rows.Close()

	var rts []*domain.Retweet
	for rows.Next() {
		var rt domain.Retweet
		if err := rows.Scan(&rt.ID, &rt.TweetID, &rt.UserID, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db: scan retweet: %w", err)
		}
		rt.CreatedAt = rt.CreatedAt.UTC()
		rts = append(rts, &rt)
	}
	return rts, total, rows.Err()
}

// --- Helpers ---

// bumpCounter ajuste un compteur du tweet parent (column est une constante interne).
func bumpCounter(ctx context.Context, tx pgx.Tx, column, tweetID string, delta int) error {
	tag, err := tx.Exec(ctx, `UPDATE tweets SET `+column+` = `+column+` + $1 WHERE id = $2`, delta, tweetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("tweet", tweetID)
	}
	return nil
}

func exists(ctx context.Context, db *pgxpool.Pool, table, tweetID, userID string) (bool, error) {
	var ok bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE tweet_id = $1 AND user_id = $2)`,
		tweetID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db: exists %s: %w", table, err)
	}
	return ok, nil
}

// engagementError traduit les erreurs PostgreSQL ; les erreurs domaine passent telles quelles.
func engagementError(err error, resource, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := postgres.IsUniqueViolation(err); ok {
		return apperr.Uniqueness("userId", duplicateMsg)
	}
	if postgres.IsForeignKeyViolation(err) {
		return apperr.NotFound("tweet", "")
	}
	if apperr.IsNotFound(err) {
		return err
	}
	return fmt.Errorf("db: %s: %w", resource, err)
}
