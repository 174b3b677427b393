package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정 관리",
	Long: `kbc 설정을 관리합니다.

설정 파일: ~/.kbc/config.yaml
환경변수 (KBC_API_URL, KBC_POLL_INTERVAL 등)가 파일보다 우선합니다.

예시:
  kbc config show
  kbc config init
  kbc config set api.base_url https://kb.example.com/api
  kbc config set poll.interval 5s`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "현재 설정 표시 (환경변수 반영)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "기본 설정 파일 생성",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "설정 값 변경",
	Long: `설정 값을 변경합니다.

사용 가능한 키:
  ` + strings.Join(config.Keys(), "\n  "),
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE:      runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "설정 값 조회",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Keys(),
	RunE:      runConfigGet,
}

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "기존 설정 덮어쓰기")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(cfg)
	}

	path := GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("%s 설정 파일이 없습니다. 기본값을 사용합니다 ('kbc config init').\n\n", warnBadge())
	}

	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		fmt.Printf("  %-14s %s\n", key, value)
	}
	fmt.Println()
	fmt.Printf("설정 파일: %s\n", path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("설정 파일이 이미 존재합니다: %s\n--force 옵션으로 덮어쓰기 가능", path)
	}

	if err := config.EnsureGlobalDirs(); err != nil {
		return fmt.Errorf("디렉토리 생성 실패: %w", err)
	}
	cfg := config.Default()
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"status": "created",
			"path":   path,
			"config": cfg,
		})
	}

	fmt.Printf("%s 설정 파일 생성: %s\n", okBadge(), path)
	fmt.Printf("  API: %s\n", cfg.API.BaseURL)
	fmt.Println()
	fmt.Println("API 주소 변경:")
	fmt.Println("  kbc config set api.base_url <url>")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := GetConfigPath()
	key, value := args[0], args[1]

	// 환경변수 값이 파일에 저장되지 않도록 파일만 읽음
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	if jsonOut {
		return printJSON(map[string]interface{}{
			"status": "updated",
			"key":    key,
			"value":  stored,
		})
	}

	fmt.Printf("%s 설정 변경: %s = %s\n", okBadge(), key, stored)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.Get(args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"key":   args[0],
			"value": value,
		})
	}
	fmt.Println(value)
	return nil
}
