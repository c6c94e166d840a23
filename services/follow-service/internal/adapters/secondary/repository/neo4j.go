package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
)

// Neo4jRepo stocke les follows comme relations (:User)-[:FOLLOWS]->(:User).
type Neo4jRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jRepo(driver neo4j.DriverWithContext) *Neo4jRepo {
	return &Neo4jRepo{driver: driver}
}

var _ ports.FollowRepository = (*Neo4jRepo)(nil)

// EnsureSchema crée les contraintes pour que les lookups par ID soient O(1)
func (r *Neo4jRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`, nil)
		return nil, err
	})
	return err
}

// Create : MERGE des noeuds puis CREATE de la flèche, refusée si elle existe déjà.
func (r *Neo4jRepo) Create(ctx context.Context, f *domain.Follow) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (a:User {id: $followerId})
			MERGE (b:User {id: $followingId})
			WITH a, b
			OPTIONAL MATCH (a)-[existing:FOLLOWS]->(b)
			WITH a, b, existing
			WHERE existing IS NULL
			CREATE (a)-[r:FOLLOWS {id: $id, created_at: $createdAt}]->(b)
			RETURN r.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"id":          f.ID,
			"followerId":  f.FollowerID,
			"followingId": f.FollowingID,
			"createdAt":   f.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, apperr.Uniqueness("followingId", "already following this user")
		}
		return nil, nil
	})
	if _, ok := apperr.TypeOf(err); ok {
		return err
	}
	if err != nil {
		return fmt.Errorf("neo4j: create follow: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) Delete(ctx context.Context, followerID, followingID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (:User {id: $followerId})-[r:FOLLOWS]->(:User {id: $followingId})
			DELETE r
			RETURN count(r) AS n
		`
		return single[int64](ctx, tx, query, map[string]any{"followerId": followerID, "followingId": followingID}, "n")
	})
	if err != nil {
		return fmt.Errorf("neo4j: delete follow: %w", err)
	}
	if deleted.(int64) == 0 {
		return apperr.NotFound("follow", followerID+"->"+followingID)
	}
	return nil
}

func (r *Neo4jRepo) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	st, err := r.GetRelationStatus(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return st.IsFollowing, nil
}

func (r *Neo4jRepo) GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Une seule requête pour checker les deux sens !
		query := `
			MATCH (a:User {id: $actorId}), (b:User {id: $targetId})
			RETURN EXISTS { (a)-[:FOLLOWS]->(b) } AS following,
			       EXISTS { (b)-[:FOLLOWS]->(a) } AS followedBy
		`
		res, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			rec := res.Record()
			following, _ := rec.Get("following")
			followedBy, _ := rec.Get("followedBy")
			return &domain.RelationStatus{
				IsFollowing:  following.(bool),
				IsFollowedBy: followedBy.(bool),
			}, nil
		}
		// Noeuds inconnus : aucune relation
		return &domain.RelationStatus{}, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: relation status: %w", err)
	}
	return result.(*domain.RelationStatus), nil
}

func (r *Neo4jRepo) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error) {
	return r.list(ctx, `(f:User)-[r:FOLLOWS]->(t:User {id: $userId})`, userID, limit, offset)
}

func (r *Neo4jRepo) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error) {
	return r.list(ctx, `(f:User {id: $userId})-[r:FOLLOWS]->(t:User)`, userID, limit, offset)
}

func (r *Neo4jRepo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `(:User)-[r:FOLLOWS]->(:User {id: $userId})`, userID)
}

func (r *Neo4jRepo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `(:User {id: $userId})-[r:FOLLOWS]->(:User)`, userID)
}

// --- Helpers ---

// pattern est toujours une constante de ce fichier.
func (r *Neo4jRepo) count(ctx context.Context, pattern, userID string) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	n, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return single[int64](ctx, tx, `MATCH `+pattern+` RETURN count(r) AS n`, map[string]any{"userId": userID}, "n")
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j: count follows: %w", err)
	}
	return n.(int64), nil
}

func (r *Neo4jRepo) list(ctx context.Context, pattern, userID string, limit, offset int) ([]*domain.Follow, int64, error) {
	total, err := r.count(ctx, pattern, userID)
	if err != nil {
		return nil, 0, err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH ` + pattern + `
			RETURN r.id AS id, f.id AS followerId, t.id AS followingId, r.created_at AS createdAt
			ORDER BY r.created_at DESC, r.id DESC
			SKIP $offset LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"userId": userID,
			"offset": int64(offset),
			"limit":  int64(limit),
		})
		if err != nil {
			return nil, err
		}

		var follows []*domain.Follow
		for res.Next(ctx) {
			rec := res.Record()
			id, _ := rec.Get("id")
			follower, _ := rec.Get("followerId")
			following, _ := rec.Get("followingId")
			createdAt, _ := rec.Get("createdAt")

			f := &domain.Follow{
				ID:          id.(string),
				FollowerID:  follower.(string),
				FollowingID: following.(string),
			}
			if t, ok := createdAt.(time.Time); ok {
				f.CreatedAt = t.UTC()
			}
			follows = append(follows, f)
		}
		return follows, res.Err()
	})
	if err != nil {
		return nil, 0, fmt.Errorf("neo4j: list follows: %w", err)
	}
	return result.([]*domain.Follow), total, nil
}

func single[T any](ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any, key string) (any, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return nil, err
	}
	v, _ := rec.Get(key)
	out, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T for %s", v, key)
	}
	return out, nil
}
