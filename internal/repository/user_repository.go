package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByPhone(ctx context.Context, phoneE164 string) (entity.User, error) {
	var user entity.User

	q := `
	SELECT id, phone_number, provider_user_id, display_name, created_at, updated_at
	FROM users
	WHERE phone_number = $1
	`

	err := r.db.QueryRow(ctx, q, phoneE164).Scan(
		&user.ID, &user.PhoneNumber, &user.ProviderUserID, &user.DisplayName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, entity.ErrNotFound
		}

		return user, err
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID uuid.UUID) (entity.User, error) {
	var user entity.User

	q := `
	SELECT id, phone_number, provider_user_id, display_name, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	err := r.db.QueryRow(ctx, q, userID).Scan(
		&user.ID, &user.PhoneNumber, &user.ProviderUserID, &user.DisplayName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, entity.ErrNotFound
		}

		return user, err
	}

	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user entity.User) error {
	q := `
	INSERT INTO users (id, phone_number, provider_user_id, display_name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, q, user.ID, user.PhoneNumber, user.ProviderUserID, user.DisplayName)
	if err != nil {
		return err
	}

	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user entity.User) error {
	q := `
	UPDATE users
	SET provider_user_id = $1, display_name = $2, updated_at = NOW()
	WHERE id = $3
	`

	result, err := r.db.Exec(ctx, q, user.ProviderUserID, user.DisplayName, user.ID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}
