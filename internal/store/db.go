package store

import (
	"fmt"
	"log"
	"time"

	"github.com/cenk/backoff"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite3 = "sqlite3" // mattn/go-sqlite3, needs cgo
	DriverSQLite  = "sqlite"  // modernc.org/sqlite, pure Go
)

// pingTimeout bounds how long Open keeps retrying the first Ping.
var pingTimeout = 10 * time.Second

// Open connects to the database and waits for it to answer. SQLite pools
// are limited to one connection so the engine serializes writers.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = pingTimeout
	err = backoff.Retry(func() error {
		if err := db.Ping(); err != nil {
			log.Printf("db ping failed, retrying: %v", err)
			return err
		}
		return nil
	}, b)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dsn, err)
	}
	return db, nil
}
