package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/ports"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const userColumns = "id, login, email, first_name, last_name, password_hash, status, role, created_at, updated_at"

// psql génère des placeholders $1, $2... pour pgx
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sqlUser est le DTO entre la base et le domaine.
type sqlUser struct {
	ID           string    `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash string    `db:"password_hash"`
	Status       string    `db:"status"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: pool}
}

var _ ports.UserRepository = (*PostgresRepo)(nil)

// Save insère un utilisateur.
func (r *PostgresRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, login, email, first_name, last_name, password_hash, status, role, created_at, updated_at)
		VALUES (@id, @login, @email, @first_name, @last_name, @password_hash, @status, @role, @created_at, @updated_at)
	`
	_, err := r.db.Exec(ctx, q, r.namedArgs(user))
	if err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.getOne(ctx, "login", login)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", strings.ToLower(email))
}

func (r *PostgresRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET login = @login, email = @email, first_name = @first_name, last_name = @last_name,
		    password_hash = @password_hash, status = @status, role = @role, updated_at = @updated_at
		WHERE id = @id
	`
	tag, err := r.db.Exec(ctx, q, r.namedArgs(user))
	if err != nil {
		return r.handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user", user.ID)
	}
	return nil
}

// List construit la requête dynamiquement selon les filtres fournis.
func (r *PostgresRepo) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	where := sq.And{}
	if f.Login != "" {
		where = append(where, sq.ILike{"login": "%" + escapeLike(f.Login) + "%"})
	}
	if f.Email != "" {
		where = append(where, sq.ILike{"email": "%" + escapeLike(f.Email) + "%"})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": string(*f.Status)})
	}
	if f.Role != nil {
		where = append(where, sq.Eq{"role": string(*f.Role)})
	}

	countQ, countArgs, err := psql.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db: count users: %w", err)
	}

	listQ, listArgs, err := psql.Select(userColumns).From("users").Where(where).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(f.Limit)).Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("db: list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u sqlUser
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("db: scan user: %w", err)
		}
		users = append(users, r.toDomain(&u))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db: list users: %w", err)
	}
	return users, total, nil
}

func (r *PostgresRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2`,
		string(domain.RoleAdmin), string(domain.StatusActive),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db: count admins: %w", err)
	}
	return n, nil
}

// --- HELPERS ---

func (r *PostgresRepo) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	q, args, err := psql.Select(userColumns).From("users").Where(sq.Eq{column: value}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u sqlUser
	if err := scanUser(r.db.QueryRow(ctx, q, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", value) // Traduction technique -> Domaine
		}
		return nil, fmt.Errorf("db: get by %s: %w", column, err)
	}
	return r.toDomain(&u), nil
}

func scanUser(row pgx.Row, u *sqlUser) error {
	return row.Scan(&u.ID, &u.Login, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

func (r *PostgresRepo) namedArgs(user *domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":            user.ID,
		"login":         user.Login,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"password_hash": user.PasswordHash,
		"status":        string(user.Status),
		"role":          string(user.Role),
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}
}

// toDomain convertit le DTO SQL en entité Domaine
func (r *PostgresRepo) toDomain(u *sqlUser) *domain.User {
	return &domain.User{
		ID:           u.ID,
		Login:        u.Login,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Status:       domain.Status(u.Status),
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

// handleError traduit les codes d'erreur PostgreSQL en erreurs du Domaine
func (r *PostgresRepo) handleError(err error) error {
	if constraint, ok := postgres.IsUniqueViolation(err); ok {
		switch constraint {
		case "users_login_key":
			return apperr.Uniqueness("login", "login is already taken")
		case "users_email_key":
			return apperr.Uniqueness("email", "email is already registered")
		default:
			return apperr.Uniqueness(constraint, "value already exists")
		}
	}
	return fmt.Errorf("db: %w", err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
