package store

import "strings"

// Filter narrows a package listing. Empty fields do not filter.
type Filter struct {
	// Search is a case-sensitive substring of name or description.
	Search string
	// Category must be one of the package's categories, exactly.
	Category string
}

// orderBy lists newest first; rows created in the same millisecond keep
// insertion order.
const orderBy = " ORDER BY created_at DESC, id ASC"

// categoriesArray yields the categories column when it holds a JSON array
// and '[]' otherwise. CASE stops at the first true branch, so json_type
// only sees valid JSON.
const categoriesArray = `CASE
	WHEN categories IS NULL OR categories = '' THEN '[]'
	WHEN NOT json_valid(categories) THEN '[]'
	WHEN json_type(categories) <> 'array' THEN '[]'
	ELSE categories END`

// Where returns the WHERE clause (including the keyword, or empty) and its
// arguments. instr is used instead of LIKE, which ignores ASCII case in
// SQLite.
func (f Filter) Where() (string, []any) {
	var clauses []string
	var args []any
	if f.Search != "" {
		clauses = append(clauses, "(instr(name, ?) > 0 OR instr(description, ?) > 0)")
		args = append(args, f.Search, f.Search)
	}
	if f.Category != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each("+categoriesArray+") WHERE value = ?)")
		args = append(args, f.Category)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
