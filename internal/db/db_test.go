package db

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDB를 위한 임시 DB 생성 헬퍼
func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "kbc-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}

	db, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("DB 열기 실패: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "kbc.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}
	defer db.Close()

	// 파일이 생성되었는지 확인
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("DB 파일이 생성되지 않음")
	}
	if db.Path() != dbPath {
		t.Errorf("Path = %s, want %s", db.Path(), dbPath)
	}
}

func TestInit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"metadata", "preferences", "history_events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("테이블 %s가 존재하지 않음: %v", table, err)
		}
	}
}

func TestInit_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Init(); err != nil {
		t.Fatalf("두 번째 Init 실패: %v", err)
	}
}

func TestGetVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	version, err := db.GetVersion()
	if err != nil {
		t.Fatalf("버전 조회 실패: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("version = %d, want %d", version, schemaVersion)
	}
}

func TestSchema_APIURLColumn(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.Exec(`INSERT INTO history_events (id, kb_id, action, api_url, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"e1", "kb-1", "publish", "http://localhost:8000/api")
	if err != nil {
		t.Fatalf("새 DB에 api_url 컬럼이 없음: %v", err)
	}
}

func TestMigrate_NewerSchemaRefused(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.Exec(`UPDATE metadata SET value = ? WHERE key = 'schema_version'`, schemaVersion+1); err != nil {
		t.Fatalf("버전 변경 실패: %v", err)
	}
	if err := db.Init(); err == nil {
		t.Error("더 새로운 스키마의 DB는 거부해야 함")
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]DBType{
		"":        TypeSQLite,
		"sqlite":  TypeSQLite,
		"DuckDB ": TypeDuckDB,
	}
	for in, want := range tests {
		got, err := ParseType(in)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseType("postgres"); err == nil {
		t.Error("ParseType(postgres) should fail")
	}
}

func TestGetDuckDBPath(t *testing.T) {
	if got := GetDuckDBPath("/tmp/kbc.db"); got != "/tmp/kbc.duckdb" {
		t.Errorf("GetDuckDBPath = %s", got)
	}
}

func TestOpenType_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbc.db")
	d, typ, err := OpenType(path, TypeSQLite)
	if err != nil {
		t.Fatalf("OpenType 실패: %v", err)
	}
	defer d.Close()
	if typ != TypeSQLite {
		t.Errorf("type = %s, want sqlite", typ)
	}
}

func TestClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}

	// Close 후 쿼리 실행 시 에러 확인
	db.Close()

	if _, err := db.Exec(`SELECT 1`); err == nil {
		t.Error("Close 후에도 쿼리가 실행됨")
	}
}
