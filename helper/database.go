package helper

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection parameters for the graph store
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// NewDatabaseConfiguration reads the database configuration from the
// environment. A .env file is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	// Ignore missing .env, fall back to process environment
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Name:     os.Getenv("DB_NAME"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
	}

	if config.Host == "" || config.Port == "" || config.Name == "" || config.User == "" {
		return nil, NewError("database configuration validation", fmt.Errorf("DB_HOST, DB_PORT, DB_NAME and DB_USER must be set"))
	}

	return config, nil
}

// ConnectionString returns the lib/pq DSN for the configuration
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		c.Host, c.Port, c.Name, c.User, c.Password,
	)
}

// Database wraps the sql.DB instance together with its logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection to the configured Postgres instance and
// pings it until it is reachable. Panics if the store stays unreachable.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for attempt := 1; ; attempt++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempt >= 10 {
			log.Panicf("error pinging database after %d attempts: %v", attempt, err)
		}
		logger.Warn("Database not reachable yet, retrying", slog.Int("attempt", attempt))
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: db,
		Logger:   logger,
	}
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	if d.Instance != nil {
		return d.Instance.Close()
	}
	return nil
}

// NewTestDatabase opens a database connection with a quiet logger for tests
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelError,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))

	return NewDatabase("test", config, logger)
}
