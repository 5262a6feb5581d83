package store

import (
	"fmt"

	"github.com/NivBraz/contentfilter-service/internal/models"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/lib/pq"              // postgres driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
	"xorm.io/xorm"
)

type EngineConfig struct {
	Type         string
	DSN          string
	MaxOpenConns int
	ShowSQL      bool
}

// NewEngine opens the database and syncs the restricted word table.
func NewEngine(cfg EngineConfig) (*xorm.Engine, error) {
	engine, err := xorm.NewEngine(cfg.Type, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	if conns := maxOpenConns(cfg.Type, cfg.MaxOpenConns); conns > 0 {
		engine.SetMaxOpenConns(conns)
		engine.SetMaxIdleConns(conns)
	}
	engine.ShowSQL(cfg.ShowSQL)

	if err := engine.Sync(new(models.RestrictedWord)); err != nil {
		engine.Close()
		return nil, fmt.Errorf("failed to sync restricted word table: %w", err)
	}

	for _, stmt := range columnFixups(cfg.Type) {
		if _, err := engine.Exec(stmt); err != nil {
			engine.Close()
			return nil, fmt.Errorf("failed to alter restricted word table: %w", err)
		}
	}

	return engine, nil
}

// maxOpenConns caps sqlite3 at one connection. A second connection on a shared cache
// fails writes with "database table is locked" instead of waiting.
func maxOpenConns(dbType string, requested int) int {
	if dbType == "sqlite3" {
		return 1
	}
	return requested
}

// columnFixups returns the statements run after Sync so that word comparisons are exact.
// mysql's default utf8mb4 collation folds case and accents, which would make "bäd" and
// "bad" the same row.
func columnFixups(dbType string) []string {
	switch dbType {
	case "mysql":
		return []string{
			"ALTER TABLE `restricted_word` MODIFY `word` VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
		}
	default:
		return nil
	}
}
