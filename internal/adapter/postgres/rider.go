package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type RiderRepo struct {
	db *pgxpool.Pool
}

func NewRiderRepo(db *pgxpool.Pool) *RiderRepo {
	return &RiderRepo{db: db}
}

// FindActiveCandidates returns every active user of the given role. Users
// without reported coordinates come back with a nil Location. Ordered by
// id so repeated calls score candidates in a stable order.
func (r *RiderRepo) FindActiveCandidates(ctx context.Context, role types.UserRole) ([]models.RiderCandidate, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, name, phone, is_active, latitude, longitude
		FROM users
		WHERE role = $1 AND is_active = true
		ORDER BY id;`

	start := time.Now()
	rows, err := q.Query(ctx, query, role)
	metrics.RecordDatabaseQuery(types.ServiceName, "rider_candidates", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("rider repo: FindActiveCandidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.RiderCandidate
	for rows.Next() {
		var (
			cand     models.RiderCandidate
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&cand.ID, &cand.Name, &cand.Phone, &cand.IsActive, &lat, &lon); err != nil {
			return nil, fmt.Errorf("rider repo: FindActiveCandidates scan: %w", err)
		}
		if lat.Valid && lon.Valid {
			cand.Location = &models.Location{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rider repo: FindActiveCandidates rows: %w", err)
	}

	return candidates, nil
}

func (r *RiderRepo) UpdateLocation(ctx context.Context, riderID uuid.UUID, loc models.Location) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE users
		SET latitude = $2, longitude = $3, updated_at = NOW()
		WHERE id = $1 AND role = $4;`

	tag, err := q.Exec(ctx, query, riderID, loc.Latitude, loc.Longitude, types.RoleRider)
	if err != nil {
		return fmt.Errorf("rider repo: UpdateLocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

func (r *RiderRepo) SetActive(ctx context.Context, riderID uuid.UUID, active bool) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE users
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND role = $3;`

	tag, err := q.Exec(ctx, query, riderID, active, types.RoleRider)
	if err != nil {
		return fmt.Errorf("rider repo: SetActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
