package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Package is one package.json record as handed to API clients and the form.
// IsPrivate is shown as "private", matching package.json.
type Package struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Main         string          `json:"main"`
	Type         string          `json:"type"`
	License      string          `json:"license"`
	Author       string          `json:"author"`
	IsPrivate    bool            `json:"private"`
	Keywords     []string        `json:"keywords"`
	Categories   []string        `json:"categories"`
	Scripts      StringMap       `json:"scripts"`
	Dependencies StringMap       `json:"dependencies"`
	Packages     json.RawMessage `json:"packages"`
	PURL         string          `json:"purl,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// PackageRow is the persisted form: flat columns, composite fields as JSON
// text, timestamps as unix milliseconds.
type PackageRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Version      string         `db:"version"`
	Description  string         `db:"description"`
	Main         string         `db:"main"`
	Type         string         `db:"type"`
	License      string         `db:"license"`
	Author       string         `db:"author"`
	IsPrivate    bool           `db:"is_private"`
	Keywords     sql.NullString `db:"keywords"`
	Categories   sql.NullString `db:"categories"`
	Scripts      sql.NullString `db:"scripts"`
	Dependencies sql.NullString `db:"dependencies"`
	Packages     sql.NullString `db:"packages"`
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    int64          `db:"updated_at"`
}

// Person is the structured author form accepted from clients.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// String flattens a person to "name <email>".
func (p Person) String() string {
	if p.Email == "" {
		return p.Name
	}
	return p.Name + " <" + p.Email + ">"
}

// Type values offered by the form. The store accepts any string.
const (
	TypeModule   = "module"
	TypeCommonJS = "commonjs"
)

// Defaults applied on create.
const (
	DefaultMain    = "index.js"
	DefaultType    = TypeModule
	DefaultLicense = "MIT"
)

// Stats is a point-in-time count of stored packages.
type Stats struct {
	Total            int64     `json:"total"`
	CreatedThisMonth int64     `json:"createdThisMonth"`
	CreatedToday     int64     `json:"createdToday"`
	LastUpdated      time.Time `json:"lastUpdated"`
}
