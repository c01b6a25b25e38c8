package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO rides (id, customer_id, pickup_location, dropoff_location, ride_type, status, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING booked_at, updated_at;`

	start := time.Now()
	err := q.QueryRow(ctx, query,
		ride.ID, ride.CustomerID, ride.PickupLocation, ride.DropoffLocation,
		ride.RideType, ride.Status, ride.BookedAt,
	).Scan(&ride.BookedAt, &ride.UpdatedAt)
	metrics.RecordDatabaseQuery(types.ServiceName, "ride_create", err, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("ride repo: Create: %w", err)
	}

	return ride, nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, customer_id, rider_id, pickup_location, dropoff_location,
		       ride_type, status, booked_at, completed_at, updated_at
		FROM rides
		WHERE id = $1;`

	var ride models.Ride
	err := q.QueryRow(ctx, query, rideID).Scan(
		&ride.ID, &ride.CustomerID, &ride.RiderID,
		&ride.PickupLocation, &ride.DropoffLocation,
		&ride.RideType, &ride.Status,
		&ride.BookedAt, &ride.CompletedAt, &ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: Get: %w", err)
	}

	return &ride, nil
}

// AssignRider is a compare-and-swap: the rider is only written when the
// ride is still Pending. Returns false when another caller got there first.
func (r *RideRepo) AssignRider(ctx context.Context, rideID, riderID uuid.UUID) (bool, error) {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rides
		SET status = $3, rider_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = $4;`

	start := time.Now()
	tag, err := q.Exec(ctx, query, rideID, riderID, types.StatusAssigned, types.StatusPending)
	metrics.RecordDatabaseQuery(types.ServiceName, "ride_assign", err, time.Since(start))

	if err != nil {
		return false, fmt.Errorf("ride repo: AssignRider: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// TransitionStatus moves the ride from exactly `from` to `to`, stamping
// completed_at for terminal completion. Returns false when the ride was
// not in `from` anymore.
func (r *RideRepo) TransitionStatus(ctx context.Context, rideID uuid.UUID, from, to types.RideStatus) (bool, error) {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rides
		SET status = $3,
		    completed_at = CASE WHEN $3 = $4 THEN NOW() ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2;`

	start := time.Now()
	tag, err := q.Exec(ctx, query, rideID, from, to, types.StatusCompleted)
	metrics.RecordDatabaseQuery(types.ServiceName, "ride_transition", err, time.Since(start))

	if err != nil {
		return false, fmt.Errorf("ride repo: TransitionStatus: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *RideRepo) List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, customer_id, rider_id, pickup_location, dropoff_location,
		       ride_type, status, booked_at, completed_at, updated_at
		FROM rides
		WHERE ($1::uuid IS NULL OR customer_id = $1)
		  AND ($2::uuid IS NULL OR rider_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY booked_at DESC
		LIMIT $4 OFFSET $5;`

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var customerID, riderID any
	if !filter.CustomerID.IsNil() {
		customerID = filter.CustomerID
	}
	if !filter.RiderID.IsNil() {
		riderID = filter.RiderID
	}
	var status any
	if filter.Status != "" {
		status = string(filter.Status)
	}

	rows, err := q.Query(ctx, query, customerID, riderID, status, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("ride repo: List: %w", err)
	}
	defer rows.Close()

	var rides []models.Ride
	for rows.Next() {
		var ride models.Ride
		if err := rows.Scan(
			&ride.ID, &ride.CustomerID, &ride.RiderID,
			&ride.PickupLocation, &ride.DropoffLocation,
			&ride.RideType, &ride.Status,
			&ride.BookedAt, &ride.CompletedAt, &ride.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ride repo: List scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride repo: List rows: %w", err)
	}

	return rides, nil
}
