package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/mcpclient"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

// Error codes for MCP client integration.
const (
	ErrMCPClientInvalid    = "MCP_CLIENT_INVALID"
	ErrMCPConfigWriteError = "MCP_CONFIG_WRITE_ERROR"
)

var (
	mcpClientFlag string
	mcpPin        bool

	// mcpHomeDir overrides the home directory client configs live under.
	mcpHomeDir string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP client integrations",
	Long: `Install, remove, or inspect the vaultkit MCP server entry in supported
client config files (Claude Code, Claude Desktop, Cursor).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func clientConfigPath() (mcpclient.Client, string, error) {
	if !mcpclient.ValidClient(mcpClientFlag) {
		return "", "", handleErrorMsg(ErrMCPClientInvalid, fmt.Sprintf("unknown client: %s", mcpClientFlag), supportedClientsHint())
	}
	client := mcpclient.Client(mcpClientFlag)
	path, err := mcpclient.ConfigPath(client, mcpHomeDir)
	if err != nil {
		return "", "", handleError(ErrInternal, err, "")
	}
	return client, path, nil
}

func supportedClientsHint() string {
	names := make([]string, 0, len(mcpclient.AllClients()))
	for _, c := range mcpclient.AllClients() {
		names = append(names, string(c))
	}
	return "Supported clients: " + strings.Join(names, ", ")
}

// serverEntry builds the serve command, pinning the resolved mappings file and
// Obsidian config dir when --pin is set.
func serverEntry() mcpclient.ServerEntry {
	if !mcpPin {
		return mcpclient.BuildServerEntry("", "")
	}
	obsidianDir := strings.TrimSpace(obsidianDirFlag)
	if obsidianDir == "" && cfg != nil {
		obsidianDir = cfg.ObsidianConfigDir
	}
	return mcpclient.BuildServerEntry(getMappingsPath(), obsidianDir)
}

var mcpInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Add vaultkit to an MCP client config",
	Long: `Add vaultkit to an MCP client config file.

Examples:
  vaultkit mcp install --client claude-code
  vaultkit mcp install --client cursor --pin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfgPath, err := clientConfigPath()
		if cfgPath == "" {
			return err
		}

		entry := serverEntry()
		result, err := mcpclient.Install(cfgPath, entry)
		if err != nil {
			return handleError(ErrMCPConfigWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"client":      string(client),
				"config_path": cfgPath,
				"result":      result.String(),
				"entry":       entry,
			}, nil)
			return nil
		}

		switch result {
		case mcpclient.Installed:
			fmt.Println(ui.Successf("Installed vaultkit in %s config", client))
		case mcpclient.Updated:
			fmt.Println(ui.Successf("Updated vaultkit in %s config", client))
		case mcpclient.AlreadyInstalled:
			fmt.Println(ui.Infof("Already installed in %s config", client))
		}
		fmt.Println(ui.Hint("config: " + cfgPath))
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove vaultkit from an MCP client config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfgPath, err := clientConfigPath()
		if cfgPath == "" {
			return err
		}

		removed, err := mcpclient.Remove(cfgPath)
		if err != nil {
			return handleError(ErrMCPConfigWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"client":      string(client),
				"config_path": cfgPath,
				"removed":     removed,
			}, nil)
			return nil
		}

		if removed {
			fmt.Println(ui.Successf("Removed vaultkit from %s config", client))
		} else {
			fmt.Println(ui.Infof("vaultkit not found in %s config", client))
		}
		fmt.Println(ui.Hint("config: " + cfgPath))
		return nil
	},
}

type mcpClientRow struct {
	*mcpclient.ClientStatus
	Error string `json:"error,omitempty"`
}

func mcpStatusRows() []mcpClientRow {
	clients := mcpclient.AllClients()
	rows := make([]mcpClientRow, 0, len(clients))
	for _, client := range clients {
		cfgPath, err := mcpclient.ConfigPath(client, mcpHomeDir)
		if err != nil {
			rows = append(rows, mcpClientRow{ClientStatus: &mcpclient.ClientStatus{Client: client}, Error: err.Error()})
			continue
		}
		cs, err := mcpclient.Status(client, cfgPath)
		if err != nil {
			rows = append(rows, mcpClientRow{ClientStatus: &mcpclient.ClientStatus{Client: client, ConfigPath: cfgPath}, Error: err.Error()})
			continue
		}
		rows = append(rows, mcpClientRow{ClientStatus: cs})
	}
	return rows
}

var mcpStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vaultkit MCP status across all clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := mcpStatusRows()

		if isJSONOutput() {
			installed := 0
			for _, r := range rows {
				if r.Installed {
					installed++
				}
			}
			outputSuccess(map[string]interface{}{"clients": rows}, &Meta{Count: installed})
			return nil
		}

		t := ui.NewTable(3)
		for _, r := range rows {
			status, detail := "not installed", ""
			switch {
			case r.Error != "":
				status = ui.Error(r.Error)
			case r.Installed && r.Entry != nil:
				status = ui.Success("installed")
				detail = ui.Hint(r.Entry.Command + " " + strings.Join(r.Entry.Args, " "))
			case !r.Exists:
				status = ui.Hint("no config file")
			}
			t.AddRow(string(r.Client), status, detail)
		}
		fmt.Print(t.String())
		return nil
	},
}

var mcpShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the MCP config snippet for manual setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mcpClientFlag != "" && !mcpclient.ValidClient(mcpClientFlag) {
			return handleErrorMsg(ErrMCPClientInvalid, fmt.Sprintf("unknown client: %s", mcpClientFlag), supportedClientsHint())
		}

		snippet := map[string]interface{}{
			"mcpServers": map[string]interface{}{
				mcpclient.ServerKey: serverEntry(),
			},
		}

		if isJSONOutput() {
			outputSuccess(snippet, nil)
			return nil
		}

		out, err := json.MarshalIndent(snippet, "", "  ")
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Println(string(out))

		if mcpClientFlag != "" {
			if cfgPath, err := mcpclient.ConfigPath(mcpclient.Client(mcpClientFlag), mcpHomeDir); err == nil {
				fmt.Printf("\nAdd this to: %s\n", cfgPath)
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{mcpInstallCmd, mcpRemoveCmd, mcpShowCmd} {
		c.Flags().StringVar(&mcpClientFlag, "client", "", "MCP client: claude-code, claude-desktop, cursor")
	}
	_ = mcpInstallCmd.MarkFlagRequired("client")
	_ = mcpRemoveCmd.MarkFlagRequired("client")
	for _, c := range []*cobra.Command{mcpInstallCmd, mcpShowCmd} {
		c.Flags().BoolVar(&mcpPin, "pin", false, "Pin the current mappings file and Obsidian config dir into the server args")
	}

	mcpCmd.AddCommand(mcpInstallCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpStatusCmd)
	mcpCmd.AddCommand(mcpShowCmd)
	rootCmd.AddCommand(mcpCmd)
}
