package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/config"
	"github.com/n0roo/kb-console/internal/db"
	"github.com/n0roo/kb-console/internal/history"
	"github.com/n0roo/kb-console/internal/lifecycle"
	"github.com/n0roo/kb-console/internal/logger"
)

// 빌드 시 ldflags로 주입
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	apiURL     string
	configPath string
	dbPath     string
	verbose    bool
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "kbc",
	Short: "Knowledge Base 관리 콘솔",
	Long: `kbc - Knowledge Base 관리 콘솔

원격 문서 지식 베이스 플랫폼을 터미널에서 관리합니다.

주요 기능:
  - 프로젝트/KB 관리: 프로젝트와 지식 베이스 조회, 생성
  - 문서 관리: 문서 생성, 파일 업로드, URL 수집, 버전 아카이브
  - KB 버전: draft 작성, publish, primary 지정, archive
  - TUI: 대화형 콘솔 (kbc tui)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API 주소 (기본: 설정 파일 또는 "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.kbc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "로컬 상태 DB 경로 (기본: ~/.kbc/kbc.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 출력")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON 출력")
}

// IsVerbose returns verbose flag
func IsVerbose() bool {
	return verbose
}

// IsJSON returns json output flag
func IsJSON() bool {
	return jsonOut
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GlobalConfigPath()
}

// loadConfig reads the config and applies command-line flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// app bundles what a command needs to talk to the API
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	client *api.Client
	store  db.Database
}

// newApp loads config and builds the logger and API client.
// logFile redirects logs away from the terminal (TUI).
func newApp(logFile string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log),
		api.WithUserAgent("kbc/"+Version),
	)

	return &app{cfg: cfg, log: log, client: client}, nil
}

// openStore opens the local state DB once
func (a *app) openStore() (db.Database, error) {
	if a.store != nil {
		return a.store, nil
	}
	t, err := db.ParseType(a.cfg.DB.Type)
	if err != nil {
		return nil, err
	}
	store, actual, err := db.OpenType(a.cfg.DBPath(), t)
	if err != nil {
		return nil, err
	}
	if actual != t {
		a.log.Warn("duckdb unavailable, using sqlite", "path", a.cfg.DBPath())
	}
	a.store = store
	return store, nil
}

// manager builds a lifecycle manager. History recording is skipped when
// the local DB cannot be opened; the remote operation still runs.
func (a *app) manager() *lifecycle.Manager {
	opts := []lifecycle.ManagerOption{lifecycle.WithLogger(a.log)}
	if store, err := a.openStore(); err == nil {
		opts = append(opts, lifecycle.WithRecorder(history.NewService(store, a.cfg.API.BaseURL)))
	} else {
		a.log.Warn("history disabled", "error", err)
	}
	return lifecycle.NewManager(a.client, opts...)
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	a.log.Sync()
}

// withApp runs fn with a ready app and an interrupt-aware context
func withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return fn(ctx, a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", warnBadge(), w)
	}
}
