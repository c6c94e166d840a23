// Package postgres ouvre les pools pgx instrumentés et applique les migrations SQL embarquées.
package postgres

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Codes SQLSTATE traduits en erreurs domaine par les repositories.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// Connect parse la config, injecte le tracer OpenTelemetry puis vérifie la connectivité (Fail Fast).
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing DB config failed")
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating connection pool failed")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database ping failed")
	}
	return pool, nil
}

// Migrate exécute, dans l'ordre lexical, les fichiers *.sql de dir non encore appliqués.
// Chaque fichier tourne dans sa propre transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return errors.Wrap(err, "creating schema_migrations failed")
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return errors.Wrapf(err, "reading migrations dir %q failed", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var applied bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&applied); err != nil {
			return errors.Wrapf(err, "checking migration %s failed", name)
		}
		if applied {
			continue
		}

		script, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return errors.Wrapf(err, "reading migration %s failed", name)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "applying migration %s failed", name)
		}
		slog.Info("✅ Migration applied", "version", name)
	}
	return nil
}

// IsUniqueViolation indique une violation de contrainte UNIQUE et retourne son nom.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == ForeignKeyViolation
}
