package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/buildinfo"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vaultkit version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Current()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("%s %s\n", ui.Bold.Render("vaultkit"), info.Version)
		fmt.Print(versionTable(info).String())
		return nil
	},
}

func versionTable(info buildinfo.Info) *ui.Table {
	t := ui.NewTable(2)
	t.AddRow(ui.Muted.Render("module"), info.ModulePath)
	if info.Commit != "" {
		t.AddRow(ui.Muted.Render("commit"), info.Commit)
	}
	if info.CommitTime != "" {
		t.AddRow(ui.Muted.Render("commit_time"), info.CommitTime)
	}
	t.AddRow(ui.Muted.Render("go"), info.GoVersion)
	t.AddRow(ui.Muted.Render("platform"), info.Platform())
	t.AddRow(ui.Muted.Render("modified"), fmt.Sprintf("%t", info.Modified))
	return t
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
