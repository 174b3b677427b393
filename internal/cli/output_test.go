package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"handbook", 5, "hand…"},
		{"지식베이스문서", 4, "지식베…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestExplainLifecycle(t *testing.T) {
	local := &lifecycle.PreconditionError{Op: "archive", KBID: "kb-1", VersionID: "v-1", Err: lifecycle.ErrPrimaryArchive}
	err := explainLifecycle(local)
	if !errors.Is(err, lifecycle.ErrPrimaryArchive) {
		t.Errorf("원인 오류가 유지되어야 함: %v", err)
	}
	if !strings.Contains(err.Error(), "[local]") {
		t.Errorf("로컬 거부 표시 없음: %v", err)
	}

	remote := errors.New("publish 실패: 500")
	if got := explainLifecycle(remote); got != remote {
		t.Errorf("원격 오류는 그대로여야 함: %v", got)
	}
}

func TestOrDashAndTime(t *testing.T) {
	if orDash("") != "-" || orDash("x") != "x" {
		t.Error("orDash 실패")
	}
	if formatTime(api.Timestamp{}) != "-" {
		t.Error("빈 시각은 - 로 표시")
	}
}
