package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Database is the common interface for SQLite and DuckDB
type Database interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Close() error
	Path() string
	GetVersion() (int, error)
	GetDB() *sql.DB
}

var _ Database = (*DB)(nil)
var _ Database = (*DuckDB)(nil)

// GetDB returns the underlying sql.DB for DB (SQLite)
func (d *DB) GetDB() *sql.DB {
	return d.DB
}

// GetDB returns the underlying sql.DB for DuckDB
func (d *DuckDB) GetDB() *sql.DB {
	return d.DB
}

// DBType represents the database type
type DBType string

const (
	TypeSQLite DBType = "sqlite"
	TypeDuckDB DBType = "duckdb"
)

// ParseType parses a configured database type; empty means sqlite
func ParseType(s string) (DBType, error) {
	switch DBType(strings.ToLower(strings.TrimSpace(s))) {
	case "", TypeSQLite:
		return TypeSQLite, nil
	case TypeDuckDB:
		return TypeDuckDB, nil
	}
	return "", fmt.Errorf("알 수 없는 DB 타입 %q (sqlite, duckdb)", s)
}

// GetDuckDBPath returns the DuckDB path for a given base path
func GetDuckDBPath(basePath string) string {
	return strings.TrimSuffix(basePath, ".db") + ".duckdb"
}

// OpenType opens basePath with the requested engine. DuckDB uses the
// ".duckdb" sibling of basePath and falls back to SQLite when it cannot open.
func OpenType(basePath string, t DBType) (Database, DBType, error) {
	if t == TypeDuckDB {
		d, err := OpenDuckDB(GetDuckDBPath(basePath))
		if err == nil {
			return d, TypeDuckDB, nil
		}
		// DuckDB 실패 시 SQLite 폴백
		s, sqliteErr := Open(basePath)
		if sqliteErr != nil {
			return nil, "", err
		}
		return s, TypeSQLite, nil
	}

	s, err := Open(basePath)
	if err != nil {
		return nil, "", err
	}
	return s, TypeSQLite, nil
}
