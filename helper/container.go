package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
)

// MustStartPostgresContainer starts a Postgres container with the pgvector
// extension preinstalled and returns a teardown function and the mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	dbContainer, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	mappedPort, err := dbContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", NewError("get mapped port", err)
	}

	return dbContainer.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database environment variables pointing
// at the test container for the duration of the test.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", port)
	t.Setenv("DB_NAME", testDatabaseName)
	t.Setenv("DB_USER", testDatabaseUser)
	t.Setenv("DB_PASSWORD", testDatabasePassword)
}
