package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/config"
	"github.com/n0roo/kb-console/internal/db"
	"github.com/n0roo/kb-console/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "설정, API, 로컬 DB 상태 확인",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "API 연결 확인",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(healthCmd)
}

// CheckResult represents a single check result
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok, warning, error
	Message string `json:"message"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []CheckResult

	checks = append(checks, CheckResult{
		Name:    "System",
		Status:  "ok",
		Message: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	})

	// 1. 설정 파일
	cfgPath := GetConfigPath()
	cfg, err := loadConfig()
	switch {
	case err != nil:
		checks = append(checks, CheckResult{Name: "Config", Status: "error", Message: err.Error()})
		cfg = config.Default()
	default:
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			checks = append(checks, CheckResult{Name: "Config", Status: "ok", Message: cfgPath})
		} else {
			checks = append(checks, CheckResult{Name: "Config", Status: "warning", Message: "설정 파일 없음, 기본값 사용 ('kbc config init')"})
		}
	}

	// 2. API
	checks = append(checks, checkAPI(cfg))

	// 3. 로컬 DB
	checks = append(checks, checkDB(cfg))

	if jsonOut {
		return printJSON(checks)
	}

	fmt.Println(boldCyan("kbc doctor"))
	fmt.Println()

	hasError := false
	for _, c := range checks {
		var icon string
		switch c.Status {
		case "ok":
			icon = okBadge()
		case "warning":
			icon = warnBadge()
		case "error":
			icon = red("✗")
			hasError = true
		}
		fmt.Printf("%s %s: %s\n", icon, c.Name, c.Message)
	}

	fmt.Println()
	if hasError {
		fmt.Println(red("문제가 발견되었습니다. 위 메시지를 확인하세요."))
		return fmt.Errorf("check failed")
	}
	fmt.Println("모든 검사를 통과했습니다.")
	return nil
}

func checkAPI(cfg *config.Config) CheckResult {
	client := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithLogger(logger.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	start := time.Now()
	if err := client.Health(ctx); err != nil {
		return CheckResult{Name: "API", Status: "error", Message: fmt.Sprintf("%s (%v)", cfg.API.BaseURL, err)}
	}
	return CheckResult{
		Name:    "API",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%s)", cfg.API.BaseURL, time.Since(start).Round(time.Millisecond)),
	}
}

func checkDB(cfg *config.Config) CheckResult {
	t, err := db.ParseType(cfg.DB.Type)
	if err != nil {
		return CheckResult{Name: "Database", Status: "error", Message: err.Error()}
	}

	path := cfg.DBPath()
	if t == db.TypeDuckDB {
		path = db.GetDuckDBPath(path)
	}
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Name: "Database", Status: "warning", Message: fmt.Sprintf("DB 파일 없음, 첫 사용 시 생성됨 (%s)", path)}
	}

	database, actual, err := db.OpenType(cfg.DBPath(), t)
	if err != nil {
		return CheckResult{Name: "Database", Status: "error", Message: fmt.Sprintf("열기 실패: %v", err)}
	}
	defer database.Close()

	version, _ := database.GetVersion()
	status := "ok"
	if actual != t {
		status = "warning"
	}
	return CheckResult{
		Name:    "Database",
		Status:  status,
		Message: fmt.Sprintf("%s v%d (%s)", actual, version, database.Path()),
	}
}

func runHealth(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		start := time.Now()
		err := a.client.Health(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)

		if jsonOut {
			out := map[string]interface{}{
				"api":        a.client.BaseURL(),
				"ok":         err == nil,
				"elapsed_ms": elapsed.Milliseconds(),
			}
			if err != nil {
				out["error"] = err.Error()
			}
			if perr := printJSON(out); perr != nil {
				return perr
			}
			return err
		}

		if err != nil {
			return fmt.Errorf("API 연결 실패 (%s): %w", a.client.BaseURL(), err)
		}
		fmt.Printf("%s %s (%s)\n", okBadge(), a.client.BaseURL(), elapsed)
		return nil
	})
}
