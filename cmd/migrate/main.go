package main

import (
	"log"
	"os"

	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 1. Extensions & Enums (AutoMigrate does not create types)
	color.Cyan("Step 1: Setting up extensions and enums...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,

		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'session_status') THEN CREATE TYPE session_status AS ENUM ('live', 'processing', 'ready', 'failed'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'speaker') THEN CREATE TYPE speaker AS ENUM ('user', 'ai'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'memory_category') THEN CREATE TYPE memory_category AS ENUM ('preference', 'goal', 'relationship', 'project', 'value', 'other'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ai_request_kind') THEN CREATE TYPE ai_request_kind AS ENUM ('realtime', 'curate'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ai_request_status') THEN CREATE TYPE ai_request_status AS ENUM ('ok', 'error'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 2. Tables
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.JournalSession{},
		&model.Utterance{},
		&model.Artifact{},
		&model.MemoryCandidate{},
		&model.AIRequestLog{},
		&model.CurationJob{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 3. Constraints AutoMigrate cannot express
	color.Cyan("Step 3: Creating constraints...")

	postMigrationSQL := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'memory_candidates_single_review') THEN
		   ALTER TABLE memory_candidates ADD CONSTRAINT memory_candidates_single_review CHECK (approved_at IS NULL OR rejected_at IS NULL);
		 END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'memory_candidates_confidence_range') THEN
		   ALTER TABLE memory_candidates ADD CONSTRAINT memory_candidates_confidence_range CHECK (confidence >= 0 AND confidence <= 1);
		 END IF; END $$;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_curation_jobs_open_session ON curation_jobs (session_id) WHERE status IN ('PENDING', 'DISPATCHED');`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("Success: database migration completed.")
}
