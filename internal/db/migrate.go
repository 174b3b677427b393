package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// localTables are copied in this order by MigrateSQLiteToDuckDB
var localTables = []string{"metadata", "preferences", "history_events"}

// MigrationResult contains migration statistics
type MigrationResult struct {
	SQLitePath   string         `json:"sqlite_path"`
	DuckDBPath   string         `json:"duckdb_path"`
	RowsMigrated map[string]int `json:"rows_migrated"`
	Errors       []string       `json:"errors,omitempty"`
}

// MigrateSQLiteToDuckDB copies the local state from a SQLite file into a
// new DuckDB file next to it. An existing DuckDB file is kept as ".backup".
func MigrateSQLiteToDuckDB(sqlitePath string) (*MigrationResult, error) {
	if _, err := os.Stat(sqlitePath); err != nil {
		return nil, fmt.Errorf("SQLite 파일 없음: %w", err)
	}

	duckdbPath := GetDuckDBPath(sqlitePath)
	result := &MigrationResult{
		SQLitePath:   sqlitePath,
		DuckDBPath:   duckdbPath,
		RowsMigrated: make(map[string]int),
	}

	src, err := Open(sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("SQLite 열기 실패: %w", err)
	}
	defer src.Close()

	if _, err := os.Stat(duckdbPath); err == nil {
		if err := os.Rename(duckdbPath, duckdbPath+".backup"); err != nil {
			return nil, fmt.Errorf("DuckDB 백업 실패: %w", err)
		}
	}

	dst, err := OpenDuckDB(duckdbPath)
	if err != nil {
		return nil, fmt.Errorf("DuckDB 열기 실패: %w", err)
	}
	defer dst.Close()

	for _, table := range localTables {
		count, err := copyTable(src.DB, dst.DB, table)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", table, err))
			continue
		}
		result.RowsMigrated[table] = count
	}

	return result, nil
}

// copyTable copies the columns both engines share. Rows whose key already
// exists in the target (schema_version) are skipped.
func copyTable(src, dst *sql.DB, table string) (int, error) {
	columns, err := sqliteColumns(src, table)
	if err != nil || len(columns) == 0 {
		return 0, err
	}

	target := make(map[string]bool)
	rows, err := dst.Query(`SELECT column_name FROM information_schema.columns WHERE table_name = ?`, table)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err == nil {
			target[col] = true
		}
	}
	rows.Close()

	var common []string
	for _, c := range columns {
		if target[c] {
			common = append(common, c)
		}
	}
	if len(common) == 0 {
		return 0, nil
	}

	list := strings.Join(common, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(common)), ", ")
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING`, table, list, placeholders)

	data, err := src.Query(fmt.Sprintf(`SELECT %s FROM %s`, list, table))
	if err != nil {
		return 0, err
	}
	defer data.Close()

	count := 0
	for data.Next() {
		values := make([]interface{}, len(common))
		ptrs := make([]interface{}, len(common))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := data.Scan(ptrs...); err != nil {
			return count, err
		}
		res, err := dst.Exec(insert, values...)
		if err != nil {
			return count, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	return count, data.Err()
}

func sqliteColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid         int
			name, ctype string
			notnull, pk int
			dflt        sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
