package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"route-time-service/internal/adapters/repositories"
	"route-time-service/internal/config"
	"route-time-service/internal/platform/db"
	"route-time-service/internal/platform/logger"

	"github.com/joho/godotenv"
)

var log = logger.New("dbtool")

func main() {
	if err := godotenv.Load(); err != nil {
		log.Infof("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("RT_CONFIG", ""))
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		log.Errorf("configure logging: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Errorf("open database: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	dialect, err := repositories.DialectFor(cfg.Database.Driver)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	stationsPath := config.Get("STATIONS_SEED_PATH", "data/seeds/stations.json")
	distancesPath := config.Get("DISTANCES_SEED_PATH", "data/seeds/distances.json")
	if err := initAndSeed(ctx, conn, dialect, stationsPath, distancesPath); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, stationsPath, distancesPath string) error {
	log.Infof("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Infof("Schema ready.")

	n, err := repositories.SeedStationsFromJSON(ctx, conn, dialect, stationsPath)
	if err != nil {
		return fmt.Errorf("seeding stations failed: %w", err)
	}
	log.Infof("Seeded %d stations from %s", n, stationsPath)

	// Distances are optional; haversine and http modes do not need them.
	if _, err := os.Stat(distancesPath); os.IsNotExist(err) {
		log.Infof("No distance seed at %s, skipping", distancesPath)
		return nil
	}
	n, err = repositories.SeedDistancesFromJSON(ctx, conn, dialect, distancesPath)
	if err != nil {
		return fmt.Errorf("seeding distances failed: %w", err)
	}
	log.Infof("Seeded %d distances from %s", n, distancesPath)

	return nil
}
