// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/logging"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

var (
	// Global flags
	configPath       string
	mappingsPathFlag string
	obsidianDirFlag  string
	logLevelFlag     string
	logFormatFlag    string

	// Resolved values
	resolvedConfigPath   string
	resolvedMappingsPath string
	cfg                  *config.Config
)

var errConfigLoad = errors.New("failed to load config")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vaultkit",
	Short: "vaultkit - find and understand your Obsidian vaults",
	Long: `vaultkit finds the Obsidian vaults registered on this machine, checks that
each one is usable, and works out how its folders are organized (PARA,
Zettelkasten, LYT, Johnny Decimal or custom).

Analyzed vaults can be saved to vault-mappings.yaml so agents know where
your inbox, projects and archive live.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("%w: %v", errConfigLoad, err)
		}
		resolvedMappingsPath = config.ResolveMappingsPath(mappingsPathFlag, resolvedConfigPath, cfg)

		if err := initLogging(); err != nil {
			return err
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	defer func() { _ = logging.Sync() }()

	err := rootCmd.Execute()
	if err != nil && jsonOutput {
		// Flag parsing and config failures never reach a command's own handler.
		outputErrorFromErr(errorCode(err), err, suggestionFor(errorCode(err)))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&mappingsPathFlag, "mappings", "", "Path to vault-mappings.yaml (overrides mappings_file in config)")
	rootCmd.PersistentFlags().StringVar(&obsidianDirFlag, "obsidian-dir", "", "Obsidian config directory containing obsidian.json")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "console", "Log format: console or json")
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}

func initLogging() error {
	level := strings.TrimSpace(logLevelFlag)
	if level == "" && cfg != nil {
		level = cfg.LogLevel
	}
	if err := logging.Init(logging.Config{Level: level, Format: logFormatFlag}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// newLocator builds a Locator honoring --obsidian-dir and obsidian_config_dir.
func newLocator() *obsidian.Locator {
	opts := []obsidian.LocatorOption{obsidian.WithLogger(logging.Named("obsidian"))}

	dir := strings.TrimSpace(obsidianDirFlag)
	if dir == "" && cfg != nil {
		dir = strings.TrimSpace(cfg.ObsidianConfigDir)
	}
	if dir != "" {
		opts = append(opts, obsidian.WithConfigDir(dir))
	}
	return obsidian.NewLocator(opts...)
}

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(analyzer.WithLogger(logging.Named("analyzer")))
}

// configuredMaxDepth returns max_depth from config or the analyzer default.
func configuredMaxDepth() int {
	return cfg.EffectiveMaxDepth(analyzer.DefaultMaxDepth)
}

func getMappingsPath() string {
	return resolvedMappingsPath
}
