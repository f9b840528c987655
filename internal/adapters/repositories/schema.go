package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-time-service/internal/domain"
	"strings"
)

// Initialize the reference database schema. The statements are portable
// between SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		road_id INTEGER NOT NULL,
		dp_id INTEGER NOT NULL,
		lon DOUBLE PRECISION NOT NULL DEFAULT 0,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS station_distances (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_km DOUBLE PRECISION NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_station_distances_destination_origin
    ON station_distances(destination, origin);
	`

	statements := []string{
		createStationsQuery,
		createDistancesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StationSeed struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	RoadID int     `json:"road_id"`
	DPID   int     `json:"dp_id"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
}

type DistanceSeed struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKM float64 `json:"distance_km"`
}

// Populate the stations table from a JSON file.
func SeedStationsFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed stations: read %q: %w", jsonPath, err)
	}

	var data []StationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed stations: parse json: %w", err)
	}

	stations := make([]domain.Station, 0, len(data))
	for i, item := range data {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			return 0, fmt.Errorf("seed stations: item at index %d: code cannot be empty", i+1)
		}
		stations = append(stations, domain.Station{
			Code:   code,
			Name:   strings.TrimSpace(item.Name),
			RoadID: item.RoadID,
			DPID:   item.DPID,
			Coords: domain.Coordinates{Lon: item.Lon, Lat: item.Lat},
		})
	}

	repo := NewSQLStationRepository(db, dialect)
	if err := repo.PutStations(ctx, stations); err != nil {
		return 0, fmt.Errorf("seed stations: %w", err)
	}

	return len(stations), nil
}

// Populate the station_distances table from a JSON file.
func SeedDistancesFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed distances: read %q: %w", jsonPath, err)
	}

	var data []DistanceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed distances: parse json: %w", err)
	}

	byOrigin := make(map[string]map[string]float64)
	for i, item := range data {
		from := strings.TrimSpace(item.From)
		to := strings.TrimSpace(item.To)
		if from == "" || to == "" {
			return 0, fmt.Errorf("seed distances: item at index %d: from and to cannot be empty", i+1)
		}
		if item.DistanceKM < 0 {
			return 0, fmt.Errorf("seed distances: item at index %d: negative distance %v", i+1, item.DistanceKM)
		}
		if byOrigin[from] == nil {
			byOrigin[from] = make(map[string]float64)
		}
		byOrigin[from][to] = item.DistanceKM
	}

	repo := NewSQLDistanceRepository(db, dialect)
	for from, results := range byOrigin {
		if err := repo.PutMany(ctx, from, results); err != nil {
			return 0, fmt.Errorf("seed distances: %w", err)
		}
	}

	return len(data), nil
}
