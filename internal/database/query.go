package database

import (
	"strings"
)

// QueryBuilder rewrites queries written with ? placeholders for a dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build replaces each ? with the dialect's numbered placeholder.
//
//	input:    "SELECT name FROM skills WHERE id = ?"
//	SQLite:   "SELECT name FROM skills WHERE id = ?"
//	Postgres: "SELECT name FROM skills WHERE id = $1"
//
// Queries must not contain a literal ?.
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			result.WriteByte(query[i])
			continue
		}
		result.WriteString(qb.dialect.Placeholder(position))
		position++
	}
	return result.String()
}

// Upsert builds an INSERT for table that overwrites the non-key columns when
// a row with the same key already exists. Both dialects share the
// ON CONFLICT syntax.
func (qb *QueryBuilder) Upsert(table, key string, columns ...string) string {
	all := append([]string{key}, columns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = excluded." + c
	}
	return qb.Build("INSERT INTO " + table + " (" + strings.Join(all, ", ") + ") VALUES (" + marks +
		") ON CONFLICT (" + key + ") DO UPDATE SET " + strings.Join(sets, ", "))
}

// Insert builds a plain INSERT for table.
func (qb *QueryBuilder) Insert(table string, columns ...string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return qb.Build("INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + marks + ")")
}
