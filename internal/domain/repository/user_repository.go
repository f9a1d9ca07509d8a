package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restaurant_api/internal/common"
	"restaurant_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByUsernameFold matches the username case-insensitively.
	FindByUsernameFold(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// EnsureRoles creates the Admin and Customer role rows if absent. It must
	// have run before any AssignRole call.
	EnsureRoles(ctx context.Context) error
	AssignRole(ctx context.Context, userID, role string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, normalized_email, name, hashed_password)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.NormalizedEmail, user.Name, user.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsernameFold(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, email, normalized_email, name, hashed_password, role, created_at, updated_at
	          FROM users WHERE LOWER(username) = LOWER($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username), "FindByUsernameFold")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, username, email, normalized_email, name, hashed_password, role, created_at, updated_at
	          FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) scanUser(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.NormalizedEmail, &user.Name,
		&user.HashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) EnsureRoles(ctx context.Context) error {
	query := `INSERT INTO roles (name) VALUES ($1), ($2) ON CONFLICT (name) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, model.RoleAdmin, model.RoleCustomer); err != nil {
		return fmt.Errorf("pgUserRepository.EnsureRoles: %w", err)
	}
	return nil
}

func (r *pgUserRepository) AssignRole(ctx context.Context, userID, role string) error {
	query := `UPDATE users SET role = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, role)
	if err != nil {
		return fmt.Errorf("pgUserRepository.AssignRole: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
