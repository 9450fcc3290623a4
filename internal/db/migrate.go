package db

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"pharmaduty-go/pkg/logger"
)

const schemaMigrationsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies every *.sql file of files that is not recorded in schema_migrations yet, in
// filename order. A file and its bookkeeping row commit together.
func Migrate(db *gorm.DB, files fs.FS, log logger.Logger) (int, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return 0, err
	}
	sort.Strings(names)

	if err := db.Exec(schemaMigrationsDDL).Error; err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, name := range names {
		var recorded int64
		if err := db.Raw("SELECT COUNT(1) FROM schema_migrations WHERE filename = ?", name).Scan(&recorded).Error; err != nil {
			return applied, err
		}
		if recorded > 0 {
			continue
		}

		contents, err := fs.ReadFile(files, name)
		if err != nil {
			return applied, err
		}
		statements := strings.TrimSpace(string(contents))
		if statements == "" {
			log.Warn("db.migrate: empty file skipped", "file", name)
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(statements).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			return tx.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", name, time.Now().UTC()).Error
		})
		if err != nil {
			return applied, err
		}
		log.Info("db.migrate: applied", "file", name)
		applied++
	}

	return applied, nil
}
