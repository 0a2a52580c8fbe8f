package store

import (
	"time"

	"github.com/SO-Ctrix/Node-Packer/internal/models"

	"github.com/package-url/packageurl-go"
)

// encodeRow flattens a package into its persisted row. Composite fields
// become compact JSON text; nil collections are written as [] or {}.
func encodeRow(p *models.Package) (models.PackageRow, error) {
	row := models.PackageRow{
		ID:          p.ID,
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Main:        p.Main,
		Type:        p.Type,
		License:     p.License,
		Author:      p.Author,
		IsPrivate:   p.IsPrivate,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	fields := []struct {
		name string
		v    any
		dst  *string
	}{
		{"keywords", keywords, &row.Keywords.String},
		{"categories", categories, &row.Categories.String},
		{"scripts", p.Scripts, &row.Scripts.String},
		{"dependencies", p.Dependencies, &row.Dependencies.String},
	}
	for _, f := range fields {
		b, err := models.EncodeJSON(f.v)
		if err != nil {
			return models.PackageRow{}, &models.DecodeError{Field: f.name, Err: err}
		}
		*f.dst = string(b)
	}
	packages, err := models.DecodeObject(p.Packages)
	if err != nil {
		return models.PackageRow{}, &models.DecodeError{Field: "packages", Err: err}
	}
	row.Packages.String = string(packages)
	row.Keywords.Valid = true
	row.Categories.Valid = true
	row.Scripts.Valid = true
	row.Dependencies.Valid = true
	row.Packages.Valid = true
	return row, nil
}

// decodeRow turns a persisted row back into a package with every composite
// field decoded. NULL columns decode to empty collections.
func decodeRow(row *models.PackageRow) (*models.Package, error) {
	p := &models.Package{
		ID:          row.ID,
		Name:        row.Name,
		Version:     row.Version,
		Description: row.Description,
		Main:        row.Main,
		Type:        row.Type,
		License:     row.License,
		Author:      row.Author,
		IsPrivate:   row.IsPrivate,
		CreatedAt:   time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(row.UpdatedAt).UTC(),
	}
	var err error
	if p.Keywords, err = models.DecodeList([]byte(row.Keywords.String)); err != nil {
		return nil, &models.DecodeError{Field: "keywords", Err: err}
	}
	if p.Categories, err = models.DecodeList([]byte(row.Categories.String)); err != nil {
		return nil, &models.DecodeError{Field: "categories", Err: err}
	}
	if p.Scripts, err = models.DecodeStringMap([]byte(row.Scripts.String)); err != nil {
		return nil, &models.DecodeError{Field: "scripts", Err: err}
	}
	if p.Dependencies, err = models.DecodeStringMap([]byte(row.Dependencies.String)); err != nil {
		return nil, &models.DecodeError{Field: "dependencies", Err: err}
	}
	if p.Packages, err = models.DecodeObject([]byte(row.Packages.String)); err != nil {
		return nil, &models.DecodeError{Field: "packages", Err: err}
	}
	p.PURL = purlFor(p.Name, p.Version)
	return p, nil
}

func purlFor(name, version string) string {
	if name == "" {
		return ""
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, "", name, version, nil, "").ToString()
}
