package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

var kbverCmd = &cobra.Command{
	Use:     "kbver",
	Aliases: []string{"kv", "release"},
	Short:   "KB 버전 관리",
	Long: `KB 버전 라이프사이클 관리

draft -> published -> archived
  - KB당 draft는 하나만 존재할 수 있습니다
  - publish된 버전 중 하나가 primary입니다
  - primary 버전은 archive할 수 없습니다`,
}

var kbverListCmd = &cobra.Command{
	Use:   "list <kb-id>",
	Short: "KB 버전 목록",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBVerList,
}

var kbverShowCmd = &cobra.Command{
	Use:   "show <kb-id> <version-id>",
	Short: "KB 버전 상세",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerShow,
}

var kbverNextCmd = &cobra.Command{
	Use:   "next <kb-id>",
	Short: "다음 버전 번호 후보",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBVerNext,
}

var kbverCreateCmd = &cobra.Command{
	Use:   "create <kb-id>",
	Short: "draft 생성",
	Long: `새 draft 버전을 생성합니다.

문서 버전 지정:
  --doc-version <id>   (반복 가능, 같은 문서는 마지막 지정이 우선)
  --latest-all         KB의 모든 문서에서 최신 버전 선택`,
	Args: cobra.ExactArgs(1),
	RunE: runKBVerCreate,
}

var kbverUpdateCmd = &cobra.Command{
	Use:   "update <kb-id> <version-id>",
	Short: "draft 수정",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerUpdate,
}

var kbverPublishCmd = &cobra.Command{
	Use:   "publish <kb-id> <version-id>",
	Short: "draft publish",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerPublish,
}

var kbverPrimaryCmd = &cobra.Command{
	Use:   "set-primary <kb-id> <version-id>",
	Short: "primary 버전 지정",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerSetPrimary,
}

var kbverArchiveCmd = &cobra.Command{
	Use:   "archive <kb-id> <version-id>",
	Short: "published 버전 archive",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerArchive,
}

var kbverDocsCmd = &cobra.Command{
	Use:   "docs <kb-id> <version-id>",
	Short: "KB 버전에 포함된 문서 버전",
	Args:  cobra.ExactArgs(2),
	RunE:  runKBVerDocs,
}

var (
	kbverName        string
	kbverNotes       string
	kbverAccess      string
	kbverBump        string
	kbverDocVersions []string
	kbverLatestAll   bool
	kbverSearch      string
)

func init() {
	rootCmd.AddCommand(kbverCmd)
	kbverCmd.AddCommand(kbverListCmd)
	kbverCmd.AddCommand(kbverShowCmd)
	kbverCmd.AddCommand(kbverNextCmd)
	kbverCmd.AddCommand(kbverCreateCmd)
	kbverCmd.AddCommand(kbverUpdateCmd)
	kbverCmd.AddCommand(kbverPublishCmd)
	kbverCmd.AddCommand(kbverPrimaryCmd)
	kbverCmd.AddCommand(kbverArchiveCmd)
	kbverCmd.AddCommand(kbverDocsCmd)

	kbverListCmd.Flags().StringVarP(&kbverSearch, "search", "s", "", "검색어 또는 semver 조건 (예: ^1.2, >=2.0.0)")

	for _, c := range []*cobra.Command{kbverCreateCmd, kbverUpdateCmd} {
		c.Flags().StringVar(&kbverName, "name", "", "버전 이름")
		c.Flags().StringVar(&kbverNotes, "notes", "", "릴리즈 노트")
		c.Flags().StringVar(&kbverAccess, "access", "", "access level (private, protected, public)")
		c.Flags().StringVar(&kbverBump, "bump", "", "버전 증가 방식 (patch, minor, major)")
		c.Flags().StringSliceVar(&kbverDocVersions, "doc-version", nil, "포함할 문서 버전 ID")
		c.Flags().BoolVar(&kbverLatestAll, "latest-all", false, "모든 문서의 최신 버전 포함")
	}
}

func runKBVerList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		versions, err := a.manager().Versions(ctx, args[0])
		if err != nil {
			return err
		}
		versions = catalog.FilterKBVersions(versions, kbverSearch)
		catalog.SortKBVersions(versions)

		if jsonOut {
			return printJSON(versions)
		}

		if len(versions) == 0 {
			fmt.Printf("버전이 없습니다. 'kbc kbver create %s'로 draft를 만드세요.\n", args[0])
			return nil
		}

		fmt.Printf("  %-38s %-10s %-10s %-10s %-5s %-20s %s\n", "ID", "VERSION", "STATUS", "ACCESS", "DOCS", "NAME", "ACTIONS")
		for _, v := range versions {
			fmt.Printf("%s %-38s %-10s %-10s %-10s %-5d %-20s %s\n",
				primaryMark(v), v.ID, v.VersionNumber, statusBadge(v.Status), accessBadge(v.AccessLevel),
				len(v.DocumentVersionIDs), truncate(orDash(v.VersionName), 20), faint(actionList(v)))
		}
		return nil
	})
}

func runKBVerShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := getKBVersion(ctx, a, args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(map[string]interface{}{
				"version": v,
				"actions": lifecycle.Actions(*v),
			})
		}

		title := v.VersionNumber
		if v.IsPrimary {
			title += " " + boldGreen("(primary)")
		}
		fmt.Printf("%s %s\n", boldCyan("KB Version"), title)
		fmt.Printf("  ID:        %s\n", v.ID)
		fmt.Printf("  Name:      %s\n", orDash(v.VersionName))
		fmt.Printf("  Status:    %s\n", statusBadge(v.Status))
		fmt.Printf("  Access:    %s\n", accessBadge(v.AccessLevel))
		fmt.Printf("  Documents: %d\n", len(v.DocumentVersionIDs))
		fmt.Printf("  Created:   %s %s\n", formatTime(v.CreatedAt), faint(v.CreatedBy))
		if !v.PublishedAt.IsZero() {
			fmt.Printf("  Published: %s %s\n", formatTime(v.PublishedAt), faint(v.PublishedBy))
		}
		if !v.ArchivedAt.IsZero() {
			fmt.Printf("  Archived:  %s %s\n", formatTime(v.ArchivedAt), faint(v.ArchivedBy))
		}
		if v.ReleaseNotes != "" {
			fmt.Println()
			fmt.Println("Release Notes:")
			for _, line := range strings.Split(v.ReleaseNotes, "\n") {
				fmt.Printf("  %s\n", line)
			}
		}

		fmt.Println()
		fmt.Println("Actions:")
		set := lifecycle.Actions(*v)
		for _, act := range []lifecycle.Action{lifecycle.ActionEdit, lifecycle.ActionPublish, lifecycle.ActionSetPrimary, lifecycle.ActionArchive} {
			st := set[act]
			if st.Enabled {
				fmt.Printf("  %s %s\n", okBadge(), act)
			} else {
				fmt.Printf("  %s %s %s\n", faint("-"), faint(string(act)), faint(st.Reason))
			}
		}
		return nil
	})
}

func runKBVerNext(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		c, err := a.manager().PlanNext(ctx, args[0])
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(c)
		}

		if c.First {
			fmt.Printf("첫 릴리즈: %s\n", boldGreen(lifecycle.FirstVersion))
			return nil
		}
		fmt.Printf("  patch: %s\n", c.Patch)
		fmt.Printf("  minor: %s\n", c.Minor)
		fmt.Printf("  major: %s\n", c.Major)
		return nil
	})
}

func runKBVerCreate(cmd *cobra.Command, args []string) error {
	fields, err := draftFieldsFromFlags(cmd, lifecycle.DraftFields{})
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app) error {
		kbID := args[0]
		binding, err := bindingFromFlags(ctx, a, kbID, nil)
		if err != nil {
			return err
		}

		res, err := a.manager().CreateDraft(ctx, kbID, fields, binding)
		if err != nil {
			return explainLifecycle(err)
		}
		return printDraftResult("draft 생성", res)
	})
}

func runKBVerUpdate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		kbID, versionID := args[0], args[1]
		current, err := getKBVersion(ctx, a, kbID, versionID)
		if err != nil {
			return err
		}

		fields, err := draftFieldsFromFlags(cmd, lifecycle.DraftFields{
			Name:         current.VersionName,
			ReleaseNotes: current.ReleaseNotes,
			AccessLevel:  current.AccessLevel,
		})
		if err != nil {
			return err
		}

		binding, err := bindingFromFlags(ctx, a, kbID, current)
		if err != nil {
			return err
		}

		res, err := a.manager().UpdateDraft(ctx, kbID, versionID, fields, binding)
		if err != nil {
			return explainLifecycle(err)
		}
		return printDraftResult("draft 수정", res)
	})
}

func runKBVerPublish(cmd *cobra.Command, args []string) error {
	return transition(args, "publish", func(ctx context.Context, m *lifecycle.Manager, v api.KnowledgeBaseVersion) error {
		return m.Publish(ctx, v)
	})
}

func runKBVerSetPrimary(cmd *cobra.Command, args []string) error {
	return transition(args, "primary 지정", func(ctx context.Context, m *lifecycle.Manager, v api.KnowledgeBaseVersion) error {
		return m.SetPrimary(ctx, v)
	})
}

func runKBVerArchive(cmd *cobra.Command, args []string) error {
	return transition(args, "archive", func(ctx context.Context, m *lifecycle.Manager, v api.KnowledgeBaseVersion) error {
		return m.Archive(ctx, v)
	})
}

// transition fetches the version, runs one lifecycle step and reports it
func transition(args []string, label string, fn func(context.Context, *lifecycle.Manager, api.KnowledgeBaseVersion) error) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := getKBVersion(ctx, a, args[0], args[1])
		if err != nil {
			return err
		}
		if err := fn(ctx, a.manager(), *v); err != nil {
			return explainLifecycle(err)
		}

		if jsonOut {
			updated, err := getKBVersion(ctx, a, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(updated)
		}
		fmt.Printf("%s %s: %s\n", okBadge(), label, v.VersionNumber)
		return nil
	})
}

func runKBVerDocs(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		v, err := getKBVersion(ctx, a, args[0], args[1])
		if err != nil {
			return err
		}
		items := catalog.LoadVersionDocuments(ctx, a.client, *v, catalog.Options{})

		if jsonOut {
			return printJSON(items)
		}

		if len(items) == 0 {
			fmt.Println("포함된 문서가 없습니다.")
			return nil
		}

		fmt.Printf("%-28s %-8s %-12s %s\n", "DOCUMENT", "VERSION", "STATUS", "")
		for _, it := range items {
			if it.Err != nil {
				fmt.Printf("%-28s %-8s %s\n", truncate(it.VersionID, 28), "-", red(it.Err.Error()))
				continue
			}
			note := ""
			switch {
			case it.IsLatest == nil:
				note = faint("latest unknown")
			case !*it.IsLatest:
				note = yellow("newer version available")
			}
			fmt.Printf("%-28s %-8s %-12s %s\n", truncate(it.Document.Name, 28), it.Version.VersionNumber, processingBadge(*it.Version), note)
		}
		return nil
	})
}

func getKBVersion(ctx context.Context, a *app, kbID, versionID string) (*api.KnowledgeBaseVersion, error) {
	v, err := a.client.GetKnowledgeBaseVersion(ctx, kbID, versionID)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, fmt.Errorf("KB 버전을 찾을 수 없습니다: %s", versionID)
		}
		return nil, err
	}
	return v, nil
}

// draftFieldsFromFlags overlays changed flags on base
func draftFieldsFromFlags(cmd *cobra.Command, base lifecycle.DraftFields) (lifecycle.DraftFields, error) {
	fields := base
	flags := cmd.Flags()
	if flags.Changed("name") {
		fields.Name = kbverName
	}
	if flags.Changed("notes") {
		fields.ReleaseNotes = kbverNotes
	}
	if flags.Changed("access") {
		access, err := api.ParseAccessLevel(kbverAccess)
		if err != nil {
			return fields, err
		}
		fields.AccessLevel = access
	}
	// 지정하지 않으면 생성은 patch, 수정은 기존 번호 유지
	if flags.Changed("bump") {
		bump, err := lifecycle.ParseBump(kbverBump)
		if err != nil {
			return fields, err
		}
		fields.Bump = bump
	}
	return fields, nil
}

// bindingFromFlags builds the document binding. Without binding flags an
// existing version keeps its current binding.
func bindingFromFlags(ctx context.Context, a *app, kbID string, current *api.KnowledgeBaseVersion) (*lifecycle.Binding, error) {
	binding := lifecycle.NewBinding()

	switch {
	case kbverLatestAll:
		summaries, err := catalog.LoadDocumentSummaries(ctx, a.client, kbID, catalog.Options{})
		if err != nil {
			return nil, err
		}
		for _, s := range summaries {
			if s.Err != nil {
				printWarnings([]string{fmt.Sprintf("%s: 버전 조회 실패, 제외됨", s.Document.Name)})
				continue
			}
			if _, _, err := binding.BindLatest(s.Versions); err != nil {
				return nil, err
			}
		}
	case current != nil && len(kbverDocVersions) == 0:
		return resolveBinding(ctx, a, current.DocumentVersionIDs)
	}

	if len(kbverDocVersions) > 0 {
		extra, err := resolveBinding(ctx, a, kbverDocVersions)
		if err != nil {
			return nil, err
		}
		for _, docID := range extra.DocumentIDs() {
			v, _ := extra.Selected(docID)
			binding.Bind(v)
		}
	}
	return binding, nil
}

// resolveBinding fetches each document version id in order
func resolveBinding(ctx context.Context, a *app, ids []string) (*lifecycle.Binding, error) {
	known := make([]api.DocumentVersion, 0, len(ids))
	for _, id := range ids {
		v, err := a.client.GetDocumentVersion(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("문서 버전 조회 실패 (%s): %w", id, err)
		}
		known = append(known, *v)
	}
	binding, missing := lifecycle.BindingFromIDs(ids, known)
	if len(missing) > 0 {
		return nil, fmt.Errorf("문서가 없는 문서 버전: %s", strings.Join(missing, ", "))
	}
	return binding, nil
}

func printDraftResult(label string, res *lifecycle.DraftResult) error {
	printWarnings(res.Warnings)
	if jsonOut {
		return printJSON(res)
	}
	v := res.Version
	fmt.Printf("%s %s: %s (%s)\n", okBadge(), label, v.VersionNumber, v.ID)
	fmt.Printf("  Access:    %s\n", accessBadge(v.AccessLevel))
	fmt.Printf("  Documents: %d\n", len(v.DocumentVersionIDs))
	return nil
}

// explainLifecycle adds a hint to local refusals
func explainLifecycle(err error) error {
	if !lifecycle.IsPrecondition(err) {
		return err
	}
	return fmt.Errorf("%s %w", cyan("[local]"), err)
}
