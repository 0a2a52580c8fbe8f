package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SO-Ctrix/Node-Packer/internal/models"
	"github.com/SO-Ctrix/Node-Packer/internal/validate"

	"github.com/jmoiron/sqlx"
)

const selectPackage = `SELECT id, name, version, description, main, type, license, author, is_private,
	keywords, categories, scripts, dependencies, packages, created_at, updated_at FROM packages`

// Store reads and writes packages. Composite fields are encoded on the way
// in and decoded on the way out; callers only see models.Package.
type Store struct {
	DB *sqlx.DB
	// Strict makes Create and Update enforce the name and version rules.
	// Off by default: the rules are checked by the form, not the store.
	Strict bool
	// Location decides where "today" and "this month" start for Stats.
	Location *time.Location
	// Now is the clock used for timestamps and stats.
	Now func() time.Time
}

func New(db *sqlx.DB) *Store { return &Store{DB: db, Location: time.Local, Now: time.Now} }

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().Truncate(time.Millisecond)
	}
	return s.Now().Truncate(time.Millisecond)
}

func (s *Store) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func newPackage() models.Package {
	return models.Package{
		Main:         models.DefaultMain,
		Type:         models.DefaultType,
		License:      models.DefaultLicense,
		Keywords:     []string{},
		Categories:   []string{},
		Scripts:      models.NewStringMap(),
		Dependencies: models.NewStringMap(),
	}
}

func (s *Store) check(p *models.Package) error {
	if !s.Strict {
		return nil
	}
	if err := validate.ValidateName(p.Name); err != nil {
		return err
	}
	return validate.ValidateVersion(p.Version)
}

// Create inserts a package, filling defaults for absent fields. Name and
// version must be present.
func (s *Store) Create(ctx context.Context, in *models.PackageInput) (*models.Package, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "name is required"}
	}
	if in.Version == nil || *in.Version == "" {
		return nil, &models.ValidationError{Field: "version", Message: "version is required"}
	}
	p := newPackage()
	in.ApplyTo(&p)
	if err := s.check(&p); err != nil {
		return nil, err
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	row, err := encodeRow(&p)
	if err != nil {
		return nil, err
	}
	res, err := s.DB.NamedExecContext(ctx, `INSERT INTO packages
		(name, version, description, main, type, license, author, is_private,
		 keywords, categories, scripts, dependencies, packages, created_at, updated_at)
		VALUES (:name, :version, :description, :main, :type, :license, :author, :is_private,
		 :keywords, :categories, :scripts, :dependencies, :packages, :created_at, :updated_at)`, row)
	if err != nil {
		return nil, fmt.Errorf("insert package: %w", err)
	}
	row.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert package: %w", err)
	}
	return decodeRow(&row)
}

func getRow(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.PackageRow, error) {
	var row models.PackageRow
	if err := sqlx.GetContext(ctx, q, &row, selectPackage+` WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get package %d: %w", id, err)
	}
	return &row, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*models.Package, error) {
	row, err := getRow(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return decodeRow(row)
}

// Update overwrites the fields present in the input and bumps updatedAt.
// The read and the write share a transaction so the update lands whole.
func (s *Store) Update(ctx context.Context, id int64, in *models.PackageInput) (*models.Package, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update package %d: %w", id, err)
	}
	defer tx.Rollback()

	row, err := getRow(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p, err := decodeRow(row)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(p)
	if err := s.check(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	next, err := encodeRow(p)
	if err != nil {
		return nil, err
	}
	_, err = tx.NamedExecContext(ctx, `UPDATE packages SET
		name = :name, version = :version, description = :description, main = :main,
		type = :type, license = :license, author = :author, is_private = :is_private,
		keywords = :keywords, categories = :categories, scripts = :scripts,
		dependencies = :dependencies, packages = :packages, updated_at = :updated_at
		WHERE id = :id`, next)
	if err != nil {
		return nil, fmt.Errorf("update package %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update package %d: %w", id, err)
	}
	return decodeRow(&next)
}

// Delete removes a package. Deleting an id that does not exist, including
// one already deleted, is a NotFoundError.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete package %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete package %d: %w", id, err)
	}
	if n == 0 {
		return &models.NotFoundError{ID: id}
	}
	return nil
}

// List returns the packages matching f, newest first. The result is never
// nil.
func (s *Store) List(ctx context.Context, f Filter) ([]*models.Package, error) {
	where, args := f.Where()
	var rows []models.PackageRow
	if err := s.DB.SelectContext(ctx, &rows, selectPackage+where+orderBy, args...); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	out := make([]*models.Package, 0, len(rows))
	for i := range rows {
		p, err := decodeRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
