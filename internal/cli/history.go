package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "KB 버전 변경 이력 (로컬)",
	Long:  `이 머신에서 수행한 KB 버전 생성, 수정, publish, primary 지정, archive 이력`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "이력 조회",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "오래된 이력 삭제",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

var (
	historyKB     string
	historyAction string
	historySearch string
	historySince  time.Duration
	historyLimit  int
	historyOlder  time.Duration
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyKB, "kb", "", "KB ID 필터")
	historyListCmd.Flags().StringVar(&historyAction, "action", "", "액션 필터 (create, edit, publish, set-primary, archive)")
	historyListCmd.Flags().StringVarP(&historySearch, "search", "s", "", "상세 내용 검색")
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "최근 기간 (예: 24h)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "최대 개수")

	historyPruneCmd.Flags().DurationVar(&historyOlder, "older-than", 90*24*time.Hour, "이 기간보다 오래된 이력 삭제")
}

func historyService(a *app) (*history.Service, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return history.NewService(store, a.cfg.API.BaseURL), nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		svc, err := historyService(a)
		if err != nil {
			return err
		}

		filter := history.Filter{
			KBID:   historyKB,
			Action: historyAction,
			Search: historySearch,
			Limit:  historyLimit,
		}
		if historySince > 0 {
			filter.Since = time.Now().Add(-historySince)
		}

		events, total, err := svc.List(filter)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(map[string]interface{}{
				"events": events,
				"total":  total,
			})
		}

		if len(events) == 0 {
			fmt.Println("이력이 없습니다.")
			return nil
		}

		fmt.Printf("%-19s %-12s %-38s %-12s %s\n", "TIME", "ACTION", "KB", "DETAIL", "VERSION")
		for _, e := range events {
			fmt.Printf("%-19s %-12s %-38s %-12s %s\n",
				formatLocal(e.CreatedAt), cyan(e.Action), e.KBID, truncate(orDash(e.Detail), 12), faint(e.VersionID))
		}
		if total > len(events) {
			fmt.Printf("\n%d / %d건 표시 (--limit)\n", len(events), total)
		}
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		svc, err := historyService(a)
		if err != nil {
			return err
		}

		before := time.Now().Add(-historyOlder)
		n, err := svc.Prune(before)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(map[string]interface{}{"deleted": n, "before": before})
		}
		fmt.Printf("%s %d건 삭제 (%s 이전)\n", okBadge(), n, formatLocal(before))
		return nil
	})
}
