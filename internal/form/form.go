// Package form models the interactive package builder as a value. Every
// operation takes a State and returns a new one; nothing is shared between
// the old and new values, so callers may keep both.
package form

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/SO-Ctrix/Node-Packer/internal/models"
	"github.com/SO-Ctrix/Node-Packer/internal/validate"
)

// Slot is one dependency row of the form.
type Slot struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// State is a draft package plus the dependency slots being edited. Slot
// indexes are never reused, so removing a slot leaves a gap.
type State struct {
	Draft models.Package
	// Errors holds blocking field errors (name, version, json).
	Errors map[string]string
	Slots  map[int]Slot
	next   int
}

// New returns the state of an empty create form.
func New() State {
	return State{
		Draft: models.Package{
			Version:      "1.0.0",
			Main:         models.DefaultMain,
			Type:         models.DefaultType,
			License:      models.DefaultLicense,
			Keywords:     []string{},
			Categories:   []string{},
			Scripts:      models.StringMapOf("test", `echo "Error: no test specified" && exit 1`, "start", "node index.js"),
			Dependencies: models.NewStringMap(),
		},
		Errors: map[string]string{},
		Slots:  map[int]Slot{},
	}
}

// FromPackage seeds an edit form from a stored package. Existing
// dependencies become slots in their stored order.
func FromPackage(p *models.Package) State {
	s := State{Draft: cloneDraft(p), Errors: map[string]string{}, Slots: map[int]Slot{}}
	for _, name := range p.Dependencies.Keys() {
		v, _ := p.Dependencies.Get(name)
		s.Slots[s.next] = Slot{Name: name, Version: v}
		s.next++
	}
	return s
}

func cloneDraft(p *models.Package) models.Package {
	d := *p
	d.Keywords = append([]string{}, p.Keywords...)
	d.Categories = append([]string{}, p.Categories...)
	d.Scripts = p.Scripts.Clone()
	d.Dependencies = p.Dependencies.Clone()
	d.Packages = append(json.RawMessage(nil), p.Packages...)
	return d
}

func (s State) clone() State {
	c := State{Draft: cloneDraft(&s.Draft), Errors: make(map[string]string, len(s.Errors)), Slots: make(map[int]Slot, len(s.Slots)), next: s.next}
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	for k, v := range s.Slots {
		c.Slots[k] = v
	}
	return c
}

// HasErrors reports whether any blocking error is recorded.
func (s State) HasErrors() bool { return len(s.Errors) > 0 }

// ApplyField sets a scalar field and re-runs its rule. Unknown fields leave
// the state unchanged.
func ApplyField(s State, field, value string) State {
	c := s.clone()
	d := &c.Draft
	switch field {
	case "name":
		d.Name = value
	case "version":
		d.Version = value
	case "description":
		d.Description = value
	case "main":
		d.Main = value
	case "type":
		d.Type = value
	case "license":
		d.License = value
	case "author":
		d.Author = value
	case "private":
		d.IsPrivate = value == "yes" || value == "true"
	default:
		return c
	}
	if err := validate.Field(field, value); err != nil {
		c.Errors[field] = err.(*models.ValidationError).Message
	} else {
		delete(c.Errors, field)
	}
	return c
}

func addUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := []string{}
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func AddKeyword(s State, kw string) State {
	c := s.clone()
	c.Draft.Keywords = addUnique(c.Draft.Keywords, kw)
	return c
}

func RemoveKeyword(s State, kw string) State {
	c := s.clone()
	c.Draft.Keywords = remove(c.Draft.Keywords, kw)
	return c
}

func AddCategory(s State, cat string) State {
	c := s.clone()
	c.Draft.Categories = addUnique(c.Draft.Categories, cat)
	return c
}

func RemoveCategory(s State, cat string) State {
	c := s.clone()
	c.Draft.Categories = remove(c.Draft.Categories, cat)
	return c
}

// AddDependency appends an empty slot and returns its index.
func AddDependency(s State) (State, int) {
	c := s.clone()
	idx := c.next
	c.Slots[idx] = Slot{}
	c.next++
	return c, idx
}

// UpdateDependency sets the slot at idx, creating it if needed.
func UpdateDependency(s State, idx int, name, version string) State {
	c := s.clone()
	c.Slots[idx] = Slot{Name: name, Version: version}
	if idx >= c.next {
		c.next = idx + 1
	}
	return c
}

// RemoveDependency drops the slot at idx. Other slots keep their indexes.
func RemoveDependency(s State, idx int) State {
	c := s.clone()
	delete(c.Slots, idx)
	return c
}

// ApplyJSON merges a JSON object typed into the raw editor over the draft.
// On a parse error the draft is unchanged and a "json" error is recorded.
func ApplyJSON(s State, text string) State {
	c := s.clone()
	in, err := models.ParseInput([]byte(text))
	if err != nil {
		c.Errors["json"] = "invalid JSON"
		return c
	}
	in.ApplyTo(&c.Draft)
	c.Errors = map[string]string{}
	if in.Dependencies != nil {
		c.Slots = map[int]Slot{}
		for _, name := range in.Dependencies.Keys() {
			v, _ := in.Dependencies.Get(name)
			c.Slots[c.next] = Slot{Name: name, Version: v}
			c.next++
		}
	}
	return c
}

// Dependencies folds the slots, in index order, into a dependency map. A
// later slot wins when two share a name; slots without a name are skipped.
func Dependencies(s State) models.StringMap {
	idxs := make([]int, 0, len(s.Slots))
	for i := range s.Slots {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	deps := models.NewStringMap()
	for _, i := range idxs {
		slot := s.Slots[i]
		name := strings.TrimSpace(slot.Name)
		if name == "" {
			continue
		}
		deps.Set(name, slot.Version)
	}
	return deps
}

// Submit builds the payload to send to the store. A state with any
// recorded error (including a rejected JSON edit) is refused with that
// error; otherwise name and version are checked once more.
func Submit(s State) (*models.PackageInput, error) {
	if s.HasErrors() {
		fields := make([]string, 0, len(s.Errors))
		for f := range s.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return nil, &models.ValidationError{Field: fields[0], Message: s.Errors[fields[0]]}
	}
	if err := validate.ValidateName(s.Draft.Name); err != nil {
		return nil, err
	}
	if err := validate.ValidateVersion(s.Draft.Version); err != nil {
		return nil, err
	}
	d := cloneDraft(&s.Draft)
	deps := Dependencies(s)
	in := &models.PackageInput{
		Name:         &d.Name,
		Version:      &d.Version,
		Description:  &d.Description,
		Main:         &d.Main,
		Type:         &d.Type,
		License:      &d.License,
		Author:       &d.Author,
		Private:      &d.IsPrivate,
		Keywords:     &d.Keywords,
		Categories:   &d.Categories,
		Scripts:      &d.Scripts,
		Dependencies: &deps,
	}
	if len(d.Packages) > 0 {
		in.Packages = d.Packages
	}
	return in, nil
}
