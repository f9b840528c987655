package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/obs"
	"strings"
)

// SQL-backed implementation of the StationRepository port.
type SQLStationRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLStationRepository(db *sql.DB, dialect Dialect) *SQLStationRepository {
	return &SQLStationRepository{DB: db, Dialect: dialect}
}

// Return the stored stations for the given codes.
func (s *SQLStationRepository) GetStations(
	ctx context.Context,
	codes []string,
) (_ map[string]domain.Station, err error) {
	defer obs.Time(ctx, "stations.GetStations")(&err)

	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}

		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}

	if len(uniq) == 0 {
		return map[string]domain.Station{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, c := range uniq {
		args = append(args, c)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
		code,
		name,
		road_id,
		dp_id,
		lon,
		lat
	FROM stations
	WHERE code IN (%s);
	`, s.Dialect.Placeholders(1, len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get stations: query stations table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Station, len(uniq))
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.Code, &st.Name, &st.RoadID, &st.DPID, &st.Coords.Lon, &st.Coords.Lat); err != nil {
			return nil, fmt.Errorf("get stations: scan row: %w", err)
		}
		out[st.Code] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get stations: row iteration: %w", err)
	}

	return out, nil
}

// Insert or update station records.
func (s *SQLStationRepository) PutStations(ctx context.Context, stations []domain.Station) error {
	if s.DB == nil {
		return errors.New("sql station repository: DB is nil")
	}

	if len(stations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO stations (code, name, road_id, dp_id, lon, lat)
	VALUES (%s)
	ON CONFLICT (code) DO UPDATE
	SET name = excluded.name,
		road_id = excluded.road_id,
		dp_id = excluded.dp_id,
		lon = excluded.lon,
		lat = excluded.lat;
	`, s.Dialect.Placeholders(1, 6))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("put stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		if _, err := stmt.ExecContext(ctx, st.Code, st.Name, st.RoadID, st.DPID, st.Coords.Lon, st.Coords.Lat); err != nil {
			return fmt.Errorf("put stations: insert code=%q: %w", st.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put stations: commit tx: %w", err)
	}

	return nil
}
