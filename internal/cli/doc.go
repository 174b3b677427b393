package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
)

var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"docs", "document"},
	Short:   "문서 관리",
	Long:    `KB 내 문서 조회, 생성, URL 수집, 설명 변경`,
}

var docListCmd = &cobra.Command{
	Use:   "list <kb-id>",
	Short: "문서 목록 (버전 요약 포함)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocList,
}

var docShowCmd = &cobra.Command{
	Use:   "show <doc-id>",
	Short: "문서 상세",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocShow,
}

var docCreateCmd = &cobra.Command{
	Use:   "create <kb-id> <name>",
	Short: "빈 문서 생성",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocCreate,
}

var docFromURLCmd = &cobra.Command{
	Use:   "from-url <kb-id> <url>",
	Short: "URL에서 문서 수집",
	Long: `URL에서 문서를 수집합니다.

처리는 비동기로 진행됩니다. 'kbc docver watch <doc-id>'로 상태를 확인하세요.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocFromURL,
}

var docDescribeCmd = &cobra.Command{
	Use:   "describe <doc-id> <description>",
	Short: "문서 설명 변경",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocDescribe,
}

var (
	docDescription string
	docName        string
	docSearch      string
)

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docFromURLCmd)
	docCmd.AddCommand(docDescribeCmd)

	docListCmd.Flags().StringVarP(&docSearch, "search", "s", "", "이름/설명 검색")
	docCreateCmd.Flags().StringVarP(&docDescription, "description", "d", "", "설명")
	docFromURLCmd.Flags().StringVar(&docName, "name", "", "문서 이름 (기본: 서버가 결정)")
	docFromURLCmd.Flags().StringVarP(&docDescription, "description", "d", "", "설명")
}

func runDocList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		summaries, err := catalog.LoadDocumentSummaries(ctx, a.client, args[0], catalog.Options{})
		if err != nil {
			return err
		}
		summaries = catalog.FilterDocuments(summaries, docSearch)

		if jsonOut {
			docs := make([]api.Document, 0, len(summaries))
			for _, s := range summaries {
				docs = append(docs, s.Document)
			}
			return printJSON(docs)
		}

		if len(summaries) == 0 {
			fmt.Println("문서가 없습니다.")
			return nil
		}

		fmt.Printf("%-38s %-28s %-8s %-8s %s\n", "ID", "NAME", "LATEST", "VERSIONS", "STATUS")
		for _, s := range summaries {
			if s.Err != nil {
				fmt.Printf("%-38s %-28s %s\n", s.Document.ID, truncate(s.Document.Name, 28), red("versions unavailable: "+s.ErrText()))
				continue
			}
			latest, status := "-", faint("empty")
			if s.Latest != nil {
				latest = s.Latest.VersionNumber
				status = processingBadge(*s.Latest)
			}
			counts := fmt.Sprintf("%d/%d", s.Active, s.Total)
			fmt.Printf("%-38s %-28s %-8s %-8s %s\n", s.Document.ID, truncate(s.Document.Name, 28), latest, counts, status)
		}

		if failed := catalog.Failed(summaries); len(failed) > 0 {
			fmt.Println()
			fmt.Printf("%s %d개 문서의 버전을 불러오지 못했습니다\n", warnBadge(), len(failed))
		}
		return nil
	})
}

func runDocShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		doc, err := a.client.GetDocument(ctx, args[0])
		if err != nil {
			if api.IsNotFound(err) {
				return fmt.Errorf("문서를 찾을 수 없습니다: %s", args[0])
			}
			return err
		}
		versions, err := a.client.ListDocumentVersions(ctx, doc.ID)
		if err != nil {
			return err
		}
		catalog.SortDocumentVersions(versions)
		s := catalog.Summarize(*doc, versions)

		if jsonOut {
			return printJSON(map[string]interface{}{
				"document": doc,
				"versions": versions,
			})
		}

		fmt.Printf("%s %s\n", boldCyan("Document"), doc.Name)
		fmt.Printf("  ID:          %s\n", doc.ID)
		fmt.Printf("  KB:          %s\n", doc.KnowledgeBaseID)
		fmt.Printf("  Description: %s\n", orDash(doc.Description))
		fmt.Printf("  Created:     %s\n", formatTime(doc.CreatedAt))
		fmt.Printf("  Versions:    %d (%d active, %d archived)\n", s.Total, s.Active, s.Archived)
		fmt.Println()

		for _, v := range versions {
			fmt.Printf("  %-6s %-12s %-24s %s\n", v.VersionNumber, processingBadge(v), truncate(orDash(v.Source()), 24), formatTime(v.CreatedAt))
		}
		return nil
	})
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		doc, err := a.client.CreateDocument(ctx, args[0], api.CreateDocumentRequest{
			Name:        args[1],
			Description: docDescription,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(doc)
		}
		fmt.Printf("%s 문서 생성: %s (%s)\n", okBadge(), doc.Name, doc.ID)
		return nil
	})
}

func runDocFromURL(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		res, err := a.client.CreateDocumentFromURL(ctx, args[0], api.URLIngestRequest{
			URL:         args[1],
			Name:        docName,
			Description: docDescription,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(res)
		}
		fmt.Printf("%s URL 수집 요청됨: %s\n", okBadge(), args[1])
		if res.DocumentID != "" {
			fmt.Printf("  Document: %s\n", res.DocumentID)
			fmt.Printf("  상태 확인: kbc docver watch %s\n", res.DocumentID)
		}
		if res.Message != "" {
			fmt.Printf("  %s\n", faint(res.Message))
		}
		return nil
	})
}

func runDocDescribe(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		doc, err := a.client.UpdateDocumentDescription(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(doc)
		}
		fmt.Printf("%s 설명 변경: %s\n", okBadge(), doc.Name)
		return nil
	})
}
