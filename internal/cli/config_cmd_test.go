package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/aidanlsb/vaultkit/internal/config"
)

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// useConfigSandbox points the config commands at a temp config.toml.
func useConfigSandbox(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	prevPath, prevCfg, prevMappings := resolvedConfigPath, cfg, resolvedMappingsPath
	t.Cleanup(func() {
		resolvedConfigPath, cfg, resolvedMappingsPath = prevPath, prevCfg, prevMappings
		resetFlags(configSetCmd.Flags())
		resetFlags(configUnsetCmd.Flags())
	})
	resolvedConfigPath = path
	resolvedMappingsPath = filepath.Join(filepath.Dir(path), config.DefaultMappingsFileName)
	cfg = &config.Config{}
	return path
}

func TestConfigInit(t *testing.T) {
	path := useConfigSandbox(t)
	buf := captureJSON(t)

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatal(err)
	}
	resp := decodeResponse(t, buf)
	if data := resp.Data.(map[string]interface{}); data["created"] != true {
		t.Errorf("expected created=true, got %v", data)
	}
	content, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(content), "# vaultkit configuration") {
		t.Fatalf("unexpected config file %q, %v", content, err)
	}

	buf.Reset()
	_ = configInitCmd.RunE(configInitCmd, nil)
	if data := decodeResponse(t, buf).Data.(map[string]interface{}); data["created"] != false {
		t.Errorf("expected created=false on second run, got %v", data)
	}
}

func TestConfigSetAndUnset(t *testing.T) {
	path := useConfigSandbox(t)
	buf := captureJSON(t)

	flags := configSetCmd.Flags()
	_ = flags.Set("max-depth", "5")
	_ = flags.Set("ui-accent", "#abc")
	if err := configSetCmd.RunE(configSetCmd, nil); err != nil {
		t.Fatal(err)
	}
	resp := decodeResponse(t, buf)
	if !resp.OK {
		t.Fatalf("set failed: %+v", resp.Error)
	}
	if cfg.MaxDepth != 5 || cfg.UI.Accent != "#abc" {
		t.Errorf("cfg not updated: %+v", cfg)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.MaxDepth != 5 || loaded.UI.Accent != "#abc" {
		t.Errorf("config not saved: %+v", loaded)
	}

	buf.Reset()
	_ = configUnsetCmd.Flags().Set("max-depth", "true")
	if err := configUnsetCmd.RunE(configUnsetCmd, nil); err != nil {
		t.Fatal(err)
	}
	loaded, _ = config.LoadFrom(path)
	if loaded.MaxDepth != 0 || loaded.UI.Accent != "#abc" {
		t.Errorf("unexpected config after unset: %+v", loaded)
	}
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	tests := []struct {
		flag, value, code string
	}{
		{"max-depth", "0", ErrInvalidInput},
		{"max-depth", "3x", ErrInvalidInput},
		{"default-log-level", "loud", ErrValidationFailed},
		{"ui-accent", "purple", ErrValidationFailed},
		{"ui-accent", "  ", ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"="+tt.value, func(t *testing.T) {
			path := useConfigSandbox(t)
			buf := captureJSON(t)

			_ = configSetCmd.Flags().Set(tt.flag, tt.value)
			_ = configSetCmd.RunE(configSetCmd, nil)

			resp := decodeResponse(t, buf)
			if resp.OK || resp.Error.Code != tt.code {
				t.Fatalf("expected %s, got %+v", tt.code, resp)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("config must not be written on validation failure")
			}
		})
	}
}

func TestConfigSetRequiresAField(t *testing.T) {
	useConfigSandbox(t)
	buf := captureJSON(t)

	_ = configSetCmd.RunE(configSetCmd, nil)
	if resp := decodeResponse(t, buf); resp.Error == nil || resp.Error.Code != ErrMissingArgument {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestConfigUnsetRequiresFile(t *testing.T) {
	useConfigSandbox(t)
	buf := captureJSON(t)

	_ = configUnsetCmd.Flags().Set("ui-accent", "true")
	_ = configUnsetCmd.RunE(configUnsetCmd, nil)
	if resp := decodeResponse(t, buf); resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("unexpected response %+v", resp)
	}
}
