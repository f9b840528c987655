package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-time-service/internal/platform/obs"
	"strings"
)

// SQL-backed store of origin->destination network distances in kilometers.
// Keys are expected to be consistent (e.g., already trimmed) by the caller.
type SQLDistanceRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLDistanceRepository(db *sql.DB, dialect Dialect) *SQLDistanceRepository {
	return &SQLDistanceRepository{DB: db, Dialect: dialect}
}

// Fetch the stored distance for a single pair.
func (s *SQLDistanceRepository) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (_ float64, _ bool, err error) {
	defer obs.Time(ctx, "distances.GetDistance")(&err)

	if s.DB == nil {
		return 0, false, errors.New("distance repository: db is nil")
	}

	if origin == "" || destination == "" {
		return 0, false, errors.New("get distance: origin and destination must not be empty")
	}

	q := fmt.Sprintf(`
	SELECT distance_km
	FROM station_distances
	WHERE origin = %s
		AND destination = %s;
	`, s.Dialect.Placeholder(1), s.Dialect.Placeholder(2))

	var km float64
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&km)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance: query station_distances table: %w", err)
	}

	return km, true, nil
}

// Store many distances for a single origin.
func (s *SQLDistanceRepository) PutMany(ctx context.Context, origin string, results map[string]float64) error {
	if s.DB == nil {
		return errors.New("distance repository: db is nil")
	}

	if origin == "" {
		return errors.New("insert distances: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distances: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO station_distances (
        origin,
        destination,
        distance_km
    )
    VALUES (%s)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_km = excluded.distance_km;
	`, s.Dialect.Placeholders(1, 3)))
	if err != nil {
		return fmt.Errorf("insert distances: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, km := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distances: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, km); err != nil {
			return fmt.Errorf("insert distances dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distances commit: %w", err)
	}

	return nil
}
