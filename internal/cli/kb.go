package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Knowledge Base 관리",
	Long:  `프로젝트의 Knowledge Base 조회 및 생성`,
}

var kbListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "KB 목록",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBList,
}

var kbShowCmd = &cobra.Command{
	Use:   "show <kb-id>",
	Short: "KB 상세 (문서, 버전 요약)",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBShow,
}

var kbCreateCmd = &cobra.Command{
	Use:   "create <project-id> <name>",
	Short: "KB 생성",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBCreate,
}

var kbDescription string

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbShowCmd)
	kbCmd.AddCommand(kbCreateCmd)

	kbCreateCmd.Flags().StringVarP(&kbDescription, "description", "d", "", "설명")
}

func runKBList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		kbs, err := a.client.ListKnowledgeBases(ctx, args[0])
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(kbs)
		}

		if len(kbs) == 0 {
			fmt.Println("KB가 없습니다.")
			return nil
		}

		fmt.Printf("%-38s %-28s %s\n", "ID", "NAME", "CREATED")
		for _, kb := range kbs {
			fmt.Printf("%-38s %-28s %s\n", kb.ID, truncate(kb.Name, 28), formatTime(kb.CreatedAt))
		}
		return nil
	})
}

func runKBShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		kb, err := a.client.GetKnowledgeBase(ctx, args[0])
		if err != nil {
			return err
		}

		summaries, err := catalog.LoadDocumentSummaries(ctx, a.client, kb.ID, catalog.Options{})
		if err != nil {
			return err
		}
		versions, err := a.client.ListKnowledgeBaseVersions(ctx, kb.ID)
		if err != nil {
			return err
		}
		catalog.SortKBVersions(versions)

		if jsonOut {
			docs := make([]api.Document, 0, len(summaries))
			for _, s := range summaries {
				docs = append(docs, s.Document)
			}
			return printJSON(map[string]interface{}{
				"knowledge_base": kb,
				"documents":      docs,
				"versions":       versions,
			})
		}

		fmt.Printf("%s %s\n", boldCyan("Knowledge Base"), kb.Name)
		fmt.Printf("  ID:          %s\n", kb.ID)
		fmt.Printf("  Project:     %s\n", kb.ProjectID)
		fmt.Printf("  Description: %s\n", orDash(kb.Description))
		fmt.Println()

		fmt.Printf("Documents (%d)\n", len(summaries))
		for _, s := range summaries {
			if s.Err != nil {
				fmt.Printf("  %-28s %s\n", truncate(s.Document.Name, 28), red("versions unavailable: "+s.ErrText()))
				continue
			}
			fmt.Printf("  %-28s %d versions (%d active, %d archived)\n",
				truncate(s.Document.Name, 28), s.Total, s.Active, s.Archived)
		}
		fmt.Println()

		fmt.Printf("Versions (%d)\n", len(versions))
		if p := lifecycle.FindPrimary(versions); p != nil {
			fmt.Printf("  primary: %s\n", p.VersionNumber)
		}
		if d := lifecycle.FindDraft(versions); d != nil {
			fmt.Printf("  draft:   %s\n", d.VersionNumber)
		}
		return nil
	})
}

func runKBCreate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		kb, err := a.client.CreateKnowledgeBase(ctx, args[0], api.CreateKnowledgeBaseRequest{
			Name:        args[1],
			Description: kbDescription,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(kb)
		}
		fmt.Printf("%s KB 생성: %s (%s)\n", okBadge(), kb.Name, kb.ID)
		return nil
	})
}
