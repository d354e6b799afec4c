package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/logging"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

// configField is one config.toml setting editable through config set/unset.
type configField struct {
	flag  string
	key   string
	usage string
	get   func(c *config.Config) string
	set   func(c *config.Config, v string) error
}

var configFields = []configField{
	{
		flag: "mappings-file", key: "mappings_file",
		usage: "vault-mappings.yaml path (absolute or relative to the config directory)",
		get:   func(c *config.Config) string { return c.MappingsFile },
		set:   func(c *config.Config, v string) error { c.MappingsFile = v; return nil },
	},
	{
		flag: "obsidian-config-dir", key: "obsidian_config_dir",
		usage: "Obsidian config directory containing obsidian.json",
		get:   func(c *config.Config) string { return c.ObsidianConfigDir },
		set:   func(c *config.Config, v string) error { c.ObsidianConfigDir = v; return nil },
	},
	{
		flag: "max-depth", key: "max_depth",
		usage: "Analysis walk depth",
		get: func(c *config.Config) string {
			if c.MaxDepth <= 0 {
				return ""
			}
			return fmt.Sprint(c.MaxDepth)
		},
		set: func(c *config.Config, v string) error {
			if v == "" {
				c.MaxDepth = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("max-depth must be a positive integer, got %q", v)
			}
			c.MaxDepth = n
			return nil
		},
	},
	{
		flag: "default-log-level", key: "log_level",
		usage: "Default log level (" + strings.Join(config.LogLevels, ", ") + ")",
		get:   func(c *config.Config) string { return c.LogLevel },
		set:   func(c *config.Config, v string) error { c.LogLevel = strings.ToLower(v); return nil },
	},
	{
		flag: "ui-accent", key: "ui.accent",
		usage: "UI accent color (ANSI 0-255 or #RRGGBB)",
		get:   func(c *config.Config) string { return c.UI.Accent },
		set:   func(c *config.Config, v string) error { c.UI.Accent = v; return nil },
	},
}

var (
	configSetValues = make(map[string]*string, len(configFields))
	configUnsetKeys = make(map[string]*bool, len(configFields))
)

func configExists() bool {
	_, err := os.Stat(resolvedConfigPath)
	return err == nil
}

func configData() map[string]interface{} {
	values := make(map[string]string, len(configFields))
	for _, f := range configFields {
		values[f.key] = strings.TrimSpace(f.get(cfg))
	}
	return map[string]interface{}{
		"config_path":   resolvedConfigPath,
		"mappings_path": getMappingsPath(),
		"exists":        configExists(),
		"values":        values,
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the global config.toml",
	Long: `Manage the global vaultkit config.toml.

Settings: ` + configKeys(),
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func configKeys() string {
	keys := make([]string, len(configFields))
	for i, f := range configFields {
		keys[i] = f.key
	}
	return strings.Join(keys, ", ")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if isJSONOutput() {
		outputSuccess(configData(), nil)
		return nil
	}

	if !configExists() {
		fmt.Printf("Config file does not exist: %s\n", resolvedConfigPath)
		fmt.Println(ui.Hint("Run 'vaultkit config init' to create it."))
		return nil
	}

	t := ui.NewTable(2)
	t.AddRow(ui.Muted.Render("config"), ui.FilePath(resolvedConfigPath))
	t.AddRow(ui.Muted.Render("mappings"), ui.FilePath(getMappingsPath()))
	for _, f := range configFields {
		if v := strings.TrimSpace(f.get(cfg)); v != "" {
			t.AddRow(ui.Muted.Render(f.key), v)
		}
	}
	fmt.Print(t.String())
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": resolvedConfigPath,
				"created":     created,
			}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(resolvedConfigPath)))
		} else {
			fmt.Println(ui.Infof("Config already exists: %s", resolvedConfigPath))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		updated := *cfg
		var changed []string
		for _, f := range configFields {
			if !cmd.Flags().Changed(f.flag) {
				continue
			}
			value := strings.TrimSpace(*configSetValues[f.flag])
			if value == "" {
				return handleErrorMsg(ErrInvalidInput,
					fmt.Sprintf("%s cannot be empty", f.flag),
					fmt.Sprintf("Use 'vaultkit config unset --%s' to clear it", f.flag))
			}
			if err := f.set(&updated, value); err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			changed = append(changed, f.key)
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided", "Settings: "+configKeys())
		}

		if err := updated.Validate(); err != nil {
			return handleClassified(err)
		}
		return saveConfig(&updated, changed)
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configExists() {
			return handleErrorMsg(ErrInvalidInput,
				"config file not found: "+resolvedConfigPath,
				"Run 'vaultkit config init' first")
		}

		updated := *cfg
		var changed []string
		for _, f := range configFields {
			if *configUnsetKeys[f.flag] {
				_ = f.set(&updated, "")
				changed = append(changed, f.key)
			}
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields selected", "Pass one or more flags, e.g. --max-depth")
		}
		return saveConfig(&updated, changed)
	},
}

func saveConfig(updated *config.Config, changed []string) error {
	if err := config.SaveTo(resolvedConfigPath, updated); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	*cfg = *updated
	if strings.TrimSpace(logLevelFlag) == "" {
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
	}

	if isJSONOutput() {
		data := configData()
		data["changed"] = changed
		outputSuccess(data, nil)
		return nil
	}
	fmt.Println(ui.Successf("Updated %s", ui.FilePath(resolvedConfigPath)))
	fmt.Println(ui.Hint("changed: " + strings.Join(changed, ", ")))
	return nil
}

func init() {
	for _, f := range configFields {
		configSetValues[f.flag] = configSetCmd.Flags().String(f.flag, "", f.usage)
		configUnsetKeys[f.flag] = configUnsetCmd.Flags().Bool(f.flag, false, "Clear "+f.key)
	}

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show config.toml values and resolved paths",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	rootCmd.AddCommand(configCmd)
}
