package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pontoamd/ponto-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, handle, password_hash, display_name, role, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, handle, password_hash, display_name, role, created_at`

	var saved model.User
	var role string
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Handle, user.PasswordHash, user.DisplayName, string(user.Role), user.CreatedAt,
	).Scan(
		&saved.ID, &saved.Handle, &saved.PasswordHash, &saved.DisplayName, &role, &saved.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, model.ErrDuplicateHandle
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	saved.Role, err = decodeRole(role)
	if err != nil {
		return model.User{}, err
	}

	return saved, nil
}

func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (model.User, error) {
	query := `SELECT id, handle, password_hash, display_name, role, created_at
			  FROM users WHERE handle = $1`

	return r.getOne(ctx, query, handle)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT id, handle, password_hash, display_name, role, created_at
			  FROM users WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, handle, password_hash, display_name, role, created_at
			  FROM users ORDER BY display_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	if !role.Valid() {
		return &model.DecodeError{Field: "role", Value: string(role)}
	}

	const query = `UPDATE users SET role = $2 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, string(role))
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var role string
	err := row.Scan(&user.ID, &user.Handle, &user.PasswordHash, &user.DisplayName, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to scan user row: %w", err)
	}

	user.Role, err = decodeRole(role)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func decodeRole(raw string) (model.Role, error) {
	role := model.Role(raw)
	if !role.Valid() {
		return "", &model.DecodeError{Field: "role", Value: raw}
	}
	return role, nil
}
