package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 출력",
	Long:  `kbc 버전 및 빌드 정보를 출력합니다.`,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      runtime.Version(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"home":    config.GlobalDir(),
	}

	if jsonOut {
		return printJSON(info)
	}

	fmt.Printf("kbc %s\n", Version)
	fmt.Println()
	fmt.Printf("  Commit:  %s\n", Commit)
	fmt.Printf("  Built:   %s\n", Date)
	fmt.Printf("  Go:      %s\n", runtime.Version())
	fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Home:    %s\n", config.GlobalDir())
	return nil
}
