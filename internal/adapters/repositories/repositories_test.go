package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/db"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "ref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func TestStationRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	repo := NewSQLStationRepository(conn, SQLite)

	require.NoError(t, repo.PutStations(ctx, []domain.Station{
		{Code: "010101", Name: "Alpha", RoadID: 1, DPID: 10, Coords: domain.Coordinates{Lon: 37.6, Lat: 55.7}},
		{Code: "020202", Name: "Beta", RoadID: 2, DPID: 20},
	}))
	// Upsert replaces the previous record.
	require.NoError(t, repo.PutStations(ctx, []domain.Station{{Code: "020202", Name: "Beta2", RoadID: 3, DPID: 30}}))

	got, err := repo.GetStations(ctx, []string{"010101", " 020202 ", "010101", "missing", ""})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 55.7, got["010101"].Coords.Lat)
	assert.Equal(t, "Beta2", got["020202"].Name)
	assert.Equal(t, 3, got["020202"].RoadID)
}

func TestSchemaKeepsDoublePrecision(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	for _, col := range []struct{ table, name string }{
		{"stations", "lon"},
		{"stations", "lat"},
		{"station_distances", "distance_km"},
	} {
		var typ string
		require.NoError(t, conn.QueryRowContext(ctx,
			"SELECT type FROM pragma_table_info(?) WHERE name = ?", col.table, col.name).Scan(&typ))
		assert.Equal(t, "DOUBLE PRECISION", typ, col.table+"."+col.name)
	}

	repo := NewSQLStationRepository(conn, SQLite)
	coords := domain.Coordinates{Lon: 37.617312345678901, Lat: 55.755812345678901}
	require.NoError(t, repo.PutStations(ctx, []domain.Station{{Code: "P", RoadID: 1, DPID: 1, Coords: coords}}))
	got, err := repo.GetStations(ctx, []string{"P"})
	require.NoError(t, err)
	assert.Equal(t, coords, got["P"].Coords)
}

func TestStationRepositoryEmptyInput(t *testing.T) {
	repo := NewSQLStationRepository(openTestDB(t), SQLite)
	got, err := repo.GetStations(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDistanceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLDistanceRepository(openTestDB(t), SQLite)

	require.NoError(t, repo.PutMany(ctx, "A", map[string]float64{"B": 120.5, "C": 80}))

	km, ok, err := repo.GetDistance(ctx, "A", "B")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120.5, km)

	_, ok, err = repo.GetDistance(ctx, "B", "A")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = repo.GetDistance(ctx, "", "A")
	assert.Error(t, err)
	assert.Error(t, repo.PutMany(ctx, "A", map[string]float64{" ": 1}))
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	dir := t.TempDir()

	stationsPath := filepath.Join(dir, "stations.json")
	require.NoError(t, os.WriteFile(stationsPath, []byte(`[
		{"code": "010101", "name": "Alpha", "road_id": 1, "dp_id": 10, "lon": 37.6, "lat": 55.7},
		{"code": "020202", "name": "Beta", "road_id": 2, "dp_id": 20, "lon": 30.3, "lat": 59.9}
	]`), 0o600))
	distancesPath := filepath.Join(dir, "distances.json")
	require.NoError(t, os.WriteFile(distancesPath, []byte(`[
		{"from": "010101", "to": "020202", "distance_km": 650}
	]`), 0o600))

	n, err := SeedStationsFromJSON(ctx, conn, SQLite, stationsPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SeedDistancesFromJSON(ctx, conn, SQLite, distancesPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	km, ok, err := NewSQLDistanceRepository(conn, SQLite).GetDistance(ctx, "010101", "020202")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 650.0, km)
}

func TestSeedRejectsInvalidItems(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	path := filepath.Join(t.TempDir(), "bad.json")

	require.NoError(t, os.WriteFile(path, []byte(`[{"code": " "}]`), 0o600))
	_, err := SeedStationsFromJSON(ctx, conn, SQLite, path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[{"from": "A", "to": "B", "distance_km": -1}]`), 0o600))
	_, err = SeedDistancesFromJSON(ctx, conn, SQLite, path)
	assert.Error(t, err)
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "?,?,?", SQLite.Placeholders(1, 3))
	assert.Equal(t, "$2,$3", Postgres.Placeholders(2, 2))

	d, err := DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	_, err = DialectFor("mysql")
	assert.Error(t, err)
}
