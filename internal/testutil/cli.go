package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// The vaultkit binary is built once per test process.
var (
	buildOnce sync.Once
	binPath   string
	binErr    error
)

// CLIResult is a parsed JSON envelope from one CLI invocation.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	ExitCode int    `json:"-"`
}

type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Vault   string `json:"vault,omitempty"`
}

type CLIMeta struct {
	Count int `json:"count,omitempty"`
}

// BuildCLI compiles ./cmd/vaultkit into a temp directory and returns the binary path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		binPath, binErr = buildBinary()
	})
	if binErr != nil {
		t.Fatalf("failed to build CLI: %v", binErr)
	}
	return binPath
}

func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "vaultkit-cli-bin-*")
	if err != nil {
		return "", err
	}

	name := "vaultkit"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/vaultkit")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\n%s", err, output)
	}
	return out, nil
}

// moduleRoot walks up from the working directory to the nearest go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// CLIEnv is an isolated sandbox for running the CLI: its own global config,
// mappings file and Obsidian config directory.
type CLIEnv struct {
	Root         string
	ConfigPath   string
	MappingsPath string
	ObsidianDir  string
	t            *testing.T
}

// NewCLIEnv creates a sandbox under a temp directory. Nothing is written until used.
func NewCLIEnv(t *testing.T) *CLIEnv {
	t.Helper()
	root := t.TempDir()
	return &CLIEnv{
		Root:         root,
		ConfigPath:   filepath.Join(root, "config.toml"),
		MappingsPath: filepath.Join(root, "vault-mappings.yaml"),
		ObsidianDir:  filepath.Join(root, "obsidian"),
		t:            t,
	}
}

// RegisterVaults writes an obsidian.json listing vaults into the sandbox.
func (e *CLIEnv) RegisterVaults(vaults map[string]RegistryEntry) {
	e.t.Helper()
	WriteRegistry(e.t, e.ObsidianDir, vaults)
}

// RunCLI runs vaultkit with --json and the sandbox paths prepended to args.
func (e *CLIEnv) RunCLI(args ...string) *CLIResult {
	e.t.Helper()

	full := append([]string{
		"--config", e.ConfigPath,
		"--mappings", e.MappingsPath,
		"--obsidian-dir", e.ObsidianDir,
		"--json",
	}, args...)

	cmd := exec.Command(BuildCLI(e.t), full...)
	cmd.Dir = e.Root
	cmd.Stdin = strings.NewReader("")
	output, err := cmd.Output()

	result := &CLIResult{}
	if err := json.Unmarshal(output, result); err != nil {
		result.OK = false
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse JSON output: " + err.Error(),
		}
	}
	result.RawJSON = string(output)

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err != nil:
		result.ExitCode = -1
	}
	return result
}

// MustSucceed fails the test unless the envelope has ok=true.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the command failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	if r.OK || r.Error == nil {
		t.Fatalf("expected command to fail with code %s\nRaw output: %s", code, r.RawJSON)
	}
	if r.Error.Code != code {
		t.Fatalf("expected error code %s, got %s: %s", code, r.Error.Code, r.Error.Message)
	}
	return r
}

// MustFailWithMessage fails the test unless the command failed with msg in
// its message or suggestion.
func (r *CLIResult) MustFailWithMessage(t *testing.T, msg string) *CLIResult {
	t.Helper()
	if r.OK || r.Error == nil {
		t.Fatalf("expected command to fail\nRaw output: %s", r.RawJSON)
	}
	if !strings.Contains(r.Error.Message, msg) && !strings.Contains(r.Error.Suggestion, msg) {
		t.Errorf("expected error to contain %q, got: %s (suggestion: %s)", msg, r.Error.Message, r.Error.Suggestion)
	}
	return r
}

// DataList returns Data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns Data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// AssertHasWarning fails the test if no warning carries code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got: %v", code, r.Warnings)
}

// AssertResultCount fails the test if Data[key] does not hold expected items.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	if got := len(r.DataList(key)); got != expected {
		t.Errorf("expected %d results in %s, got %d\nRaw output: %s", expected, key, got, r.RawJSON)
	}
}
