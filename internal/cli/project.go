package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "프로젝트 관리",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "프로젝트 목록",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "프로젝트 상세 (KB 포함)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "프로젝트 생성",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectDescription string

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)

	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "설명")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		projects, err := a.client.ListProjects(ctx)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(projects)
		}

		if len(projects) == 0 {
			fmt.Println("프로젝트가 없습니다. 'kbc project create <name>'으로 생성하세요.")
			return nil
		}

		fmt.Printf("%-38s %-28s %s\n", "ID", "NAME", "CREATED")
		for _, p := range projects {
			fmt.Printf("%-38s %-28s %s\n", p.ID, truncate(p.Name, 28), formatTime(p.CreatedAt))
		}
		return nil
	})
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		p, err := a.client.GetProject(ctx, args[0])
		if err != nil {
			if api.IsNotFound(err) {
				return fmt.Errorf("프로젝트를 찾을 수 없습니다: %s", args[0])
			}
			return err
		}
		kbs, err := a.client.ListKnowledgeBases(ctx, p.ID)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(map[string]interface{}{
				"project":         p,
				"knowledge_bases": kbs,
			})
		}

		fmt.Printf("%s %s\n", boldCyan("Project"), p.Name)
		fmt.Printf("  ID:          %s\n", p.ID)
		fmt.Printf("  Description: %s\n", orDash(p.Description))
		fmt.Printf("  Created:     %s\n", formatTime(p.CreatedAt))
		fmt.Println()
		fmt.Printf("Knowledge Bases (%d)\n", len(kbs))
		for _, kb := range kbs {
			fmt.Printf("  %-38s %s\n", kb.ID, kb.Name)
		}
		return nil
	})
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		p, err := a.client.CreateProject(ctx, api.CreateProjectRequest{
			Name:        args[0],
			Description: projectDescription,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(p)
		}
		fmt.Printf("%s 프로젝트 생성: %s (%s)\n", okBadge(), p.Name, p.ID)
		return nil
	})
}
