package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

func TestDraftFieldsBumpOnlyWhenGiven(t *testing.T) {
	cmd := &cobra.Command{Use: "update"}
	cmd.Flags().StringVar(&kbverName, "name", "", "")
	cmd.Flags().StringVar(&kbverBump, "bump", "", "")

	base := lifecycle.DraftFields{Name: "spring", AccessLevel: api.AccessPublic}
	fields, err := draftFieldsFromFlags(cmd, base)
	if err != nil {
		t.Fatalf("draftFieldsFromFlags failed: %v", err)
	}
	if fields.Bump != "" {
		t.Errorf("bump = %q, --bump 없이는 비어 있어야 함", fields.Bump)
	}
	if fields.Name != "spring" || fields.AccessLevel != api.AccessPublic {
		t.Errorf("fields = %+v", fields)
	}

	if err := cmd.Flags().Set("bump", "major"); err != nil {
		t.Fatal(err)
	}
	fields, err = draftFieldsFromFlags(cmd, base)
	if err != nil {
		t.Fatalf("draftFieldsFromFlags failed: %v", err)
	}
	if fields.Bump != lifecycle.BumpMajor {
		t.Errorf("bump = %q, want major", fields.Bump)
	}

	if err := cmd.Flags().Set("bump", "huge"); err != nil {
		t.Fatal(err)
	}
	if _, err := draftFieldsFromFlags(cmd, base); err == nil {
		t.Error("알 수 없는 bump는 에러여야 함")
	}
}
