package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/config"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/migration"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/postgres"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: $MIGRATIONS_PATH)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if migrationsPath == "" {
		migrationsPath = cfg.Migration.Path
	}

	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: true,
		Encoding:      "console",
		Level:         "info",
	})
	defer log.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		log.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()

	m, err := migration.New(db.DB, migrationsPath, log)
	if err != nil {
		log.Fatal("Could not prepare migrations", zap.Error(err))
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("Usage: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		err = m.Steps(n)
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-path dir] <up|down|steps n|version>")
}
