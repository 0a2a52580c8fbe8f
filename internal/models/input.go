package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// PackageInput is a parsed create/update payload. A nil field was absent
// from the payload; on update absent fields keep their stored value.
type PackageInput struct {
	Name         *string
	Version      *string
	Description  *string
	Main         *string
	Type         *string
	License      *string
	Author       *string
	Private      *bool
	Keywords     *[]string
	Categories   *[]string
	Scripts      *StringMap
	Dependencies *StringMap
	Packages     json.RawMessage
}

func Ptr[T any](v T) *T { return &v }

var errNotObject = errors.New("expected a JSON object")

// ParseInput checks the shape of a JSON payload field by field. Unknown
// keys (id, createdAt, purl, ...) are ignored so a fetched record can be
// sent back unchanged.
func ParseInput(data []byte) (*PackageInput, error) {
	if !isObject(data) {
		return nil, &DecodeError{Err: errNotObject}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DecodeError{Err: err}
	}
	in := &PackageInput{}
	strs := []struct {
		key string
		dst **string
	}{
		{"name", &in.Name},
		{"version", &in.Version},
		{"description", &in.Description},
		{"main", &in.Main},
		{"type", &in.Type},
		{"license", &in.License},
	}
	for _, f := range strs {
		raw, ok := fields[f.key]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &DecodeError{Field: f.key, Err: err}
		}
		*f.dst = &s
	}

	if raw, ok := fields["author"]; ok && !isNull(raw) {
		author, err := parseAuthor(raw)
		if err != nil {
			return nil, &DecodeError{Field: "author", Err: err}
		}
		in.Author = &author
	}

	raw, ok := fields["private"]
	if !ok {
		raw, ok = fields["isPrivate"]
	}
	if ok && !isNull(raw) {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, &DecodeError{Field: "private", Err: err}
		}
		in.Private = &b
	}

	for _, f := range []struct {
		key string
		dst **[]string
	}{
		{"keywords", &in.Keywords},
		{"categories", &in.Categories},
	} {
		raw, ok := fields[f.key]
		if !ok {
			continue
		}
		list, err := DecodeList(raw)
		if err != nil {
			return nil, &DecodeError{Field: f.key, Err: err}
		}
		*f.dst = &list
	}

	for _, f := range []struct {
		key string
		dst **StringMap
	}{
		{"scripts", &in.Scripts},
		{"dependencies", &in.Dependencies},
	} {
		raw, ok := fields[f.key]
		if !ok {
			continue
		}
		var m StringMap
		if err := m.UnmarshalJSON(raw); err != nil {
			return nil, &DecodeError{Field: f.key, Err: err}
		}
		*f.dst = &m
	}

	if raw, ok := fields["packages"]; ok {
		obj, err := DecodeObject(raw)
		if err != nil {
			return nil, &DecodeError{Field: "packages", Err: err}
		}
		in.Packages = obj
	}
	return in, nil
}

// ApplyTo overwrites the fields of p that are present in the input.
func (in *PackageInput) ApplyTo(p *Package) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, in.Name)
	set(&p.Version, in.Version)
	set(&p.Description, in.Description)
	set(&p.Main, in.Main)
	set(&p.Type, in.Type)
	set(&p.License, in.License)
	set(&p.Author, in.Author)
	if in.Private != nil {
		p.IsPrivate = *in.Private
	}
	if in.Keywords != nil {
		p.Keywords = append([]string{}, (*in.Keywords)...)
	}
	if in.Categories != nil {
		p.Categories = append([]string{}, (*in.Categories)...)
	}
	if in.Scripts != nil {
		p.Scripts = in.Scripts.Clone()
	}
	if in.Dependencies != nil {
		p.Dependencies = in.Dependencies.Clone()
	}
	if in.Packages != nil {
		p.Packages = append(json.RawMessage{}, in.Packages...)
	}
}

// DecodeList decodes a JSON array of strings. null and empty text give an
// empty, non-nil slice. Duplicates are kept.
func DecodeList(raw []byte) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// DecodeStringMap decodes a JSON object of strings. null and empty text
// give an empty map.
func DecodeStringMap(raw []byte) (StringMap, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewStringMap(), nil
	}
	var m StringMap
	if err := m.UnmarshalJSON(raw); err != nil {
		return StringMap{}, err
	}
	return m, nil
}

// DecodeObject validates a free-form JSON object and returns it compacted.
// null and empty text give {}.
func DecodeObject(raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return json.RawMessage("{}"), nil
	}
	if !isObject(raw) {
		return nil, errNotObject
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

func parseAuthor(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var p Person
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", errors.New("author must be a string or {name, email}")
	}
	return p.String(), nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}
