package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/config"
	"github.com/n0roo/kb-console/internal/poller"
)

var docverCmd = &cobra.Command{
	Use:     "docver",
	Aliases: []string{"dv"},
	Short:   "문서 버전 관리",
	Long:    `문서 버전 업로드, URL 수집, 아카이브, 삭제, 다운로드`,
}

var docverListCmd = &cobra.Command{
	Use:   "list [doc-id]",
	Short: "문서 버전 목록",
	Long: `문서 버전 목록

  kbc docver list <doc-id>          문서 하나의 버전
  kbc docver list --project <id>    프로젝트 전체 문서 버전`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocverList,
}

var docverShowCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "문서 버전 상세",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocverShow,
}

var docverUploadCmd = &cobra.Command{
	Use:   "upload <doc-id> <file>",
	Short: "파일을 새 버전으로 업로드",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocverUpload,
}

var docverFromURLCmd = &cobra.Command{
	Use:   "from-url <doc-id> <url>",
	Short: "URL에서 새 버전 수집",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocverFromURL,
}

var docverArchiveCmd = &cobra.Command{
	Use:   "archive <doc-id> <version-id>",
	Short: "문서 버전 아카이브",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocverArchive,
}

var docverDeleteCmd = &cobra.Command{
	Use:   "delete <doc-id> <version-id>",
	Short: "문서 버전 삭제",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocverDelete,
}

var docverDownloadCmd = &cobra.Command{
	Use:   "download <version-id>",
	Short: "문서 버전 파일 다운로드",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocverDownload,
}

var docverWatchCmd = &cobra.Command{
	Use:   "watch <doc-id>",
	Short: "처리 중인 버전이 끝날 때까지 상태 확인",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocverWatch,
}

var (
	docverChange   string
	docverReason   string
	docverYes      bool
	docverOutDir   string
	docverSearch   string
	docverProject  string
	docverWatch    bool
	docverInterval time.Duration
)

func init() {
	rootCmd.AddCommand(docverCmd)
	docverCmd.AddCommand(docverListCmd)
	docverCmd.AddCommand(docverShowCmd)
	docverCmd.AddCommand(docverUploadCmd)
	docverCmd.AddCommand(docverFromURLCmd)
	docverCmd.AddCommand(docverArchiveCmd)
	docverCmd.AddCommand(docverDeleteCmd)
	docverCmd.AddCommand(docverDownloadCmd)
	docverCmd.AddCommand(docverWatchCmd)

	docverListCmd.Flags().StringVarP(&docverSearch, "search", "s", "", "버전/파일/상태 검색")
	docverListCmd.Flags().StringVarP(&docverProject, "project", "p", "", "프로젝트 전체 문서 버전 조회")
	docverUploadCmd.Flags().StringVarP(&docverChange, "change", "c", "", "변경 설명")
	docverUploadCmd.Flags().BoolVarP(&docverWatch, "watch", "w", false, "업로드 후 처리 완료까지 대기")
	docverFromURLCmd.Flags().BoolVarP(&docverWatch, "watch", "w", false, "수집 후 처리 완료까지 대기")
	docverArchiveCmd.Flags().StringVarP(&docverReason, "reason", "r", "", "아카이브 사유 (필수)")
	docverArchiveCmd.MarkFlagRequired("reason")
	docverDeleteCmd.Flags().BoolVarP(&docverYes, "yes", "y", false, "확인 없이 삭제")
	docverDownloadCmd.Flags().StringVarP(&docverOutDir, "output", "o", "", "저장 디렉토리 (기본: ~/.kbc/downloads)")
	docverWatchCmd.Flags().DurationVar(&docverInterval, "interval", 0, "확인 주기 (기본: 설정의 poll.interval)")
}

func runDocverList(cmd *cobra.Command, args []string) error {
	docID := ""
	if len(args) > 0 {
		docID = args[0]
	}
	return withApp(func(ctx context.Context, a *app) error {
		versions, err := listDocumentVersions(ctx, a.client, docID, docverProject)
		if err != nil {
			return err
		}
		versions = catalog.FilterDocumentVersions(versions, docverSearch)
		catalog.SortDocumentVersions(versions)

		if jsonOut {
			return printJSON(versions)
		}

		if len(versions) == 0 {
			fmt.Println("버전이 없습니다. 'kbc docver upload <doc-id> <file>'로 업로드하세요.")
			return nil
		}

		printDocumentVersions(versions)
		return nil
	})
}

// listDocumentVersions reads one document's versions, or a whole project's
func listDocumentVersions(ctx context.Context, c *api.Client, docID, projectID string) ([]api.DocumentVersion, error) {
	switch {
	case docID != "" && projectID != "":
		return nil, fmt.Errorf("<doc-id>와 --project는 함께 쓸 수 없습니다")
	case projectID != "":
		return c.ListProjectDocumentVersions(ctx, projectID)
	case docID != "":
		return c.ListDocumentVersions(ctx, docID)
	}
	return nil, fmt.Errorf("<doc-id> 또는 --project가 필요합니다")
}

func printDocumentVersions(versions []api.DocumentVersion) {
	fmt.Printf("%-38s %-8s %-12s %-28s %s\n", "ID", "VERSION", "STATUS", "SOURCE", "CREATED")
	for _, v := range versions {
		fmt.Printf("%-38s %-8s %-12s %-28s %s\n",
			v.ID, v.VersionNumber, processingBadge(v), truncate(orDash(v.Source()), 28), formatTime(v.CreatedAt))
	}
}

func runDocverShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := a.client.GetDocumentVersion(ctx, args[0])
		if err != nil {
			if api.IsNotFound(err) {
				return fmt.Errorf("문서 버전을 찾을 수 없습니다: %s", args[0])
			}
			return err
		}

		if jsonOut {
			return printJSON(v)
		}

		fmt.Printf("%s %s\n", boldCyan("Document Version"), v.VersionNumber)
		fmt.Printf("  ID:       %s\n", v.ID)
		fmt.Printf("  Document: %s\n", v.DocumentID)
		fmt.Printf("  Name:     %s\n", orDash(v.VersionName))
		fmt.Printf("  Status:   %s\n", processingBadge(v))
		fmt.Printf("  Source:   %s\n", orDash(v.Source()))
		if v.FileSize > 0 {
			fmt.Printf("  Size:     %d bytes\n", v.FileSize)
		}
		fmt.Printf("  Change:   %s\n", orDash(v.ChangeDescription))
		fmt.Printf("  Created:  %s %s\n", formatTime(v.CreatedAt), faint(v.CreatedBy))
		if v.IsArchived {
			fmt.Printf("  Archived: %s (%s)\n", formatTime(v.ArchivedAt), orDash(v.ArchiveReason))
		}
		return nil
	})
}

func runDocverUpload(cmd *cobra.Command, args []string) error {
	docID, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("파일 열기 실패: %w", err)
	}
	defer f.Close()

	return withApp(func(ctx context.Context, a *app) error {
		res, err := a.client.UploadDocumentVersion(ctx, docID, filepath.Base(path), f, docverChange)
		if err != nil {
			return err
		}

		if jsonOut && !docverWatch {
			return printJSON(res)
		}
		fmt.Printf("%s 업로드 완료: %s\n", okBadge(), filepath.Base(path))
		if res.VersionID != "" {
			fmt.Printf("  Version: %s\n", res.VersionID)
		}

		if docverWatch {
			return watchDocument(ctx, a, docID, a.cfg.Poll.Interval)
		}
		fmt.Printf("  상태 확인: kbc docver watch %s\n", docID)
		return nil
	})
}

func runDocverFromURL(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := a.client.CreateDocumentVersionFromURL(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOut && !docverWatch {
			return printJSON(v)
		}
		fmt.Printf("%s URL 수집 요청됨: %s\n", okBadge(), args[1])
		if v.ID != "" {
			fmt.Printf("  Version: %s (%s)\n", v.ID, processingBadge(*v))
		}

		if docverWatch {
			return watchDocument(ctx, a, args[0], a.cfg.Poll.Interval)
		}
		return nil
	})
}

func runDocverArchive(cmd *cobra.Command, args []string) error {
	if docverReason == "" {
		return fmt.Errorf("아카이브 사유가 필요합니다 (--reason)")
	}

	return withApp(func(ctx context.Context, a *app) error {
		v, err := a.client.ArchiveDocumentVersion(ctx, args[0], args[1], docverReason)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(v)
		}
		fmt.Printf("%s 아카이브: %s (%s)\n", okBadge(), orDash(v.VersionNumber), docverReason)
		return nil
	})
}

func runDocverDelete(cmd *cobra.Command, args []string) error {
	if !docverYes {
		return fmt.Errorf("삭제는 되돌릴 수 없습니다. --yes로 확인하세요")
	}

	return withApp(func(ctx context.Context, a *app) error {
		if err := a.client.DeleteDocumentVersion(ctx, args[0], args[1]); err != nil {
			return err
		}

		if jsonOut {
			return printJSON(map[string]string{"deleted": args[1]})
		}
		fmt.Printf("%s 삭제: %s\n", okBadge(), args[1])
		return nil
	})
}

func runDocverDownload(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := a.client.GetDocumentVersion(ctx, args[0])
		if err != nil {
			return err
		}
		doc, err := a.client.GetDocument(ctx, v.DocumentID)
		if err != nil {
			return err
		}

		dir := docverOutDir
		if dir == "" {
			dir = config.DownloadsDir()
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("디렉토리 생성 실패: %w", err)
		}

		target := filepath.Join(dir, api.DownloadFileName(doc.Name, v.VersionNumber))
		tmp, err := os.CreateTemp(dir, ".download-*")
		if err != nil {
			return fmt.Errorf("임시 파일 생성 실패: %w", err)
		}
		defer os.Remove(tmp.Name())

		_, n, err := a.client.DownloadDocumentVersion(ctx, v.DocumentID, v.ID, tmp)
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		if err := os.Rename(tmp.Name(), target); err != nil {
			return fmt.Errorf("파일 저장 실패: %w", err)
		}

		if jsonOut {
			return printJSON(map[string]interface{}{"path": target, "bytes": n})
		}
		fmt.Printf("%s 다운로드: %s (%d bytes)\n", okBadge(), target, n)
		return nil
	})
}

func runDocverWatch(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		interval := docverInterval
		if interval <= 0 {
			interval = a.cfg.Poll.Interval
		}
		return watchDocument(ctx, a, args[0], interval)
	})
}

// watchDocument polls a document's versions until none is in flight
func watchDocument(ctx context.Context, a *app, docID string, interval time.Duration) error {
	versions, err := a.client.ListDocumentVersions(ctx, docID)
	if err != nil {
		return err
	}
	if !catalog.HasPending(versions) {
		fmt.Println("처리 중인 버전이 없습니다.")
		return nil
	}

	seen := make(map[string]api.ProcessingStatus)
	report := func(versions []api.DocumentVersion) {
		for _, v := range versions {
			s := v.Processing()
			if prev, ok := seen[v.ID]; ok && prev == s {
				continue
			}
			seen[v.ID] = s
			fmt.Printf("[%s] %-8s %s\n", time.Now().Format("15:04:05"), v.VersionNumber, processingBadge(v))
		}
	}
	report(versions)

	done := make(chan struct{})
	var once sync.Once
	var lastErr error

	p := poller.New(a.log)
	defer p.StopAll()

	p.Watch(ctx, docID, interval, func(ctx context.Context) (bool, error) {
		versions, err := a.client.ListDocumentVersions(ctx, docID)
		if err != nil {
			lastErr = err
			return false, err
		}
		lastErr = nil
		report(versions)
		if catalog.HasPending(versions) {
			return false, nil
		}
		once.Do(func() { close(done) })
		return true, nil
	})

	select {
	case <-done:
		fmt.Printf("%s 처리 완료\n", okBadge())
		return nil
	case <-ctx.Done():
		p.StopAll()
		if lastErr != nil {
			return fmt.Errorf("상태 확인 중단: %w", lastErr)
		}
		return ctx.Err()
	}
}
