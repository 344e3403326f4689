package sql

import (
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Initialize database extensions", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		// Verify pgvector extension is created
		var exists bool
		err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector');").Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "pgvector extension should be created")
	})

	t.Run("Initialize database extensions is idempotent", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		err = Init(db.Instance)
		assert.NoError(t, err)
	})
}

func TestLoadEntitiesSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load entities SQL functions", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, false)
		assert.NoError(t, err)

		// Verify all functions exist
		for _, funcName := range EntitiesFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Load entities SQL functions with force", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestLoadCommunitiesSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load communities SQL functions", func(t *testing.T) {
		err := LoadCommunitiesSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range CommunitiesFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}

func TestLoadCandidatesSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load candidates SQL functions", func(t *testing.T) {
		err := LoadCandidatesSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range CandidatesFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}

func TestLoadAllSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load all SQL functions", func(t *testing.T) {
		err := LoadAllSql(db.Instance, false)
		assert.NoError(t, err)

		allFunctions := []string{}
		allFunctions = append(allFunctions, EntitiesFunctions...)
		allFunctions = append(allFunctions, CommunitiesFunctions...)
		allFunctions = append(allFunctions, CandidatesFunctions...)

		for _, funcName := range allFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}
