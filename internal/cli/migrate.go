package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "로컬 상태 DB 관리",
	Long:  `선택 상태와 버전 변경 이력을 저장하는 로컬 DB를 관리합니다.`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "SQLite → DuckDB 마이그레이션",
	Long: `로컬 SQLite DB를 DuckDB로 복사합니다.

마이그레이션 과정:
1. 기존 DuckDB 파일 백업 (.backup)
2. DuckDB 스키마 생성
3. 테이블 복사 (metadata, preferences, history_events)

예시:
  kbc db migrate
  kbc db migrate --source ~/.kbc/kbc.db`,
	Args: cobra.NoArgs,
	RunE: runDBMigrate,
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "현재 DB 상태 확인",
	Args:  cobra.NoArgs,
	RunE:  runDBStatus,
}

var (
	migrateSource string
	migrateForce  bool
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)

	dbMigrateCmd.Flags().StringVar(&migrateSource, "source", "", "SQLite DB 파일 경로 (기본: ~/.kbc/kbc.db)")
	dbMigrateCmd.Flags().BoolVar(&migrateForce, "force", false, "기존 DuckDB 파일이 있어도 진행 (백업 후 교체)")
}

func runDBMigrate(cmd *cobra.Command, args []string) error {
	sqlitePath := migrateSource
	if sqlitePath == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sqlitePath = cfg.DBPath()
	}

	if _, err := os.Stat(sqlitePath); os.IsNotExist(err) {
		return fmt.Errorf("SQLite 파일이 없습니다: %s", sqlitePath)
	}

	duckdbPath := db.GetDuckDBPath(sqlitePath)
	if _, err := os.Stat(duckdbPath); err == nil && !migrateForce {
		return fmt.Errorf("DuckDB 파일이 이미 존재합니다: %s\n--force 옵션으로 백업 후 교체할 수 있습니다", duckdbPath)
	}

	if !jsonOut {
		fmt.Println("마이그레이션 시작...")
		fmt.Printf("  소스: %s\n", sqlitePath)
		fmt.Printf("  대상: %s\n", duckdbPath)
		fmt.Println()
	}

	result, err := db.MigrateSQLiteToDuckDB(sqlitePath)
	if err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}

	fmt.Printf("%s 마이그레이션 완료\n\n", okBadge())

	tables := make([]string, 0, len(result.RowsMigrated))
	for table := range result.RowsMigrated {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		n := result.RowsMigrated[table]
		fmt.Printf("  - %s: %d행\n", table, n)
		total += n
	}
	fmt.Printf("\n  총 %d행\n", total)

	if len(result.Errors) > 0 {
		fmt.Println()
		printWarnings(result.Errors)
	}

	fmt.Println()
	fmt.Println("DuckDB를 사용하려면:")
	fmt.Println("  kbc config set db.type duckdb")
	fmt.Println("  또는 export KBC_DB_TYPE=duckdb")
	return nil
}

func runDBStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sqlitePath := cfg.DBPath()
	duckdbPath := db.GetDuckDBPath(sqlitePath)

	type fileState struct {
		Path    string `json:"path"`
		Exists  bool   `json:"exists"`
		Size    int64  `json:"size"`
		Version int    `json:"schema_version,omitempty"`
	}
	stat := func(path string, open func(string) (db.Database, error)) fileState {
		st := fileState{Path: path}
		info, err := os.Stat(path)
		if err != nil {
			return st
		}
		st.Exists, st.Size = true, info.Size()
		if d, err := open(path); err == nil {
			st.Version, _ = d.GetVersion()
			d.Close()
		}
		return st
	}

	sqliteState := stat(sqlitePath, func(p string) (db.Database, error) { return db.Open(p) })
	duckdbState := stat(duckdbPath, func(p string) (db.Database, error) { return db.OpenDuckDB(p) })

	if jsonOut {
		return printJSON(map[string]interface{}{
			"current_type": cfg.DB.Type,
			"sqlite":       sqliteState,
			"duckdb":       duckdbState,
		})
	}

	fmt.Printf("현재 사용: %s\n\n", cfg.DB.Type)
	for _, item := range []struct {
		name string
		st   fileState
	}{{"SQLite", sqliteState}, {"DuckDB", duckdbState}} {
		fmt.Printf("%s:\n", item.name)
		if !item.st.Exists {
			fmt.Printf("  %s 없음: %s\n", faint("-"), item.st.Path)
			continue
		}
		fmt.Printf("  %s %s\n", okBadge(), item.st.Path)
		fmt.Printf("  크기: %s\n", formatSize(item.st.Size))
		if item.st.Version > 0 {
			fmt.Printf("  스키마 버전: v%d\n", item.st.Version)
		}
	}

	switch {
	case !duckdbState.Exists && sqliteState.Exists:
		fmt.Println("\nDuckDB로 마이그레이션하려면: kbc db migrate")
	case duckdbState.Exists && cfg.DB.Type != string(db.TypeDuckDB):
		fmt.Println("\nDuckDB를 사용하려면: kbc config set db.type duckdb")
	}
	return nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
