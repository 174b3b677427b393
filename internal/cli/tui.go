package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/config"
	"github.com/n0roo/kb-console/internal/poller"
	"github.com/n0roo/kb-console/internal/prefs"
	"github.com/n0roo/kb-console/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "대화형 콘솔 실행",
	Long: `터미널 기반 KB 콘솔을 실행합니다.

프로젝트 → KB → 문서/KB 버전 순으로 탐색하고, draft 작성과
publish, primary 지정, archive를 수행합니다. 로그는 ~/.kbc/kbc.log에 기록됩니다.`,
	Args: cobra.NoArgs,
	RunE: runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDirs(); err != nil {
		return err
	}

	// 화면을 가리지 않도록 로그는 파일로
	a, err := newApp(config.GlobalLogPath())
	if err != nil {
		return err
	}
	defer a.close()

	opts := tui.Options{
		Client:       a.client,
		Manager:      a.manager(),
		Poller:       poller.New(a.log),
		Log:          a.log,
		PollInterval: a.cfg.Poll.Interval,
		APIURL:       a.cfg.API.BaseURL,
	}
	if store, err := a.openStore(); err == nil {
		opts.Prefs = prefs.NewService(store)
	} else {
		fmt.Fprintf(os.Stderr, "%s 로컬 DB를 열 수 없어 선택 상태를 저장하지 않습니다: %v\n", warnBadge(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a.log.Info("console started", "api", a.cfg.API.BaseURL)
	return tui.Run(ctx, opts)
}
