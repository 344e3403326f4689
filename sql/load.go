package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed entities.sql
var entitiesSQL string

//go:embed communities.sql
var communitiesSQL string

//go:embed candidates.sql
var candidatesSQL string

// Function lists for verification
var EntitiesFunctions = []string{
	"init_entities",
	"insert_entity",
	"select_entity",
	"select_all_entities",
	"delete_entity",
}

var CommunitiesFunctions = []string{
	"init_communities",
	"insert_community",
	"select_community",
	"select_all_communities",
	"delete_community",
}

var CandidatesFunctions = []string{
	"select_candidates_by_similarity",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadEntitiesSql loads entity-related SQL functions
func LoadEntitiesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, EntitiesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing entities functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(entitiesSQL)
	if err != nil {
		return fmt.Errorf("error executing entities SQL: %w", err)
	}

	exist, err := checkFunctions(db, EntitiesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL entities functions loaded successfully")
	return nil
}

// LoadCommunitiesSql loads community-related SQL functions
func LoadCommunitiesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, CommunitiesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing communities functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(communitiesSQL)
	if err != nil {
		return fmt.Errorf("error executing communities SQL: %w", err)
	}

	exist, err := checkFunctions(db, CommunitiesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL communities functions loaded successfully")
	return nil
}

// LoadCandidatesSql loads the unified candidate SQL functions
func LoadCandidatesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, CandidatesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing candidates functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(candidatesSQL)
	if err != nil {
		return fmt.Errorf("error executing candidates SQL: %w", err)
	}

	exist, err := checkFunctions(db, CandidatesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL candidates functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadEntitiesSql(db, force); err != nil {
		return err
	}

	if err := LoadCommunitiesSql(db, force); err != nil {
		return err
	}

	if err := LoadCandidatesSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
