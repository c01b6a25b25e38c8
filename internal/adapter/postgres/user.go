package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/postgres"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO users (id, name, email, phone, role, vehicle_details, is_active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.Role, user.VehicleDetails, user.IsActive, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, types.ErrEmailTaken
		}
		return nil, fmt.Errorf("user repo: Create: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, role, vehicle_details, is_active,
		       latitude, longitude, password_hash, created_at, updated_at
		FROM users
		WHERE %s;`, where)

	var (
		user     models.User
		lat, lon sql.NullFloat64
	)
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role, &user.VehicleDetails,
		&user.IsActive, &lat, &lon, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repo: get: %w", err)
	}

	if lat.Valid && lon.Valid {
		user.Location = &models.Location{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return &user, nil
}
