package database

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all up migrations found at migrationsPath. When the
// directory does not exist (a binary installed without the migrations tree),
// the embedded bootstrap schema is applied instead.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		return Bootstrap(db)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	// No Close here: the driver shares the app's *sql.DB and closing the
	// migrate instance would close that connection too.

	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}
