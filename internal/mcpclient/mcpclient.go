// Package mcpclient registers the vaultkit MCP server in the config files of
// MCP clients (Claude Code, Claude Desktop, Cursor).
package mcpclient

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/aidanlsb/vaultkit/internal/atomicfile"
)

// ServerKey is the entry name under mcpServers.
const ServerKey = "vaultkit"

// Client identifies an MCP client application.
type Client string

const (
	ClaudeCode    Client = "claude-code"
	ClaudeDesktop Client = "claude-desktop"
	Cursor        Client = "cursor"
)

// AllClients returns all supported MCP clients.
func AllClients() []Client {
	return []Client{ClaudeCode, ClaudeDesktop, Cursor}
}

// ValidClient returns true if c is a recognized client name.
func ValidClient(c string) bool {
	for _, known := range AllClients() {
		if Client(c) == known {
			return true
		}
	}
	return false
}

// ServerEntry is the command a client runs to start the server.
type ServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Equal reports whether both entries run the same command line.
func (e ServerEntry) Equal(other ServerEntry) bool {
	if e.Command != other.Command || len(e.Args) != len(other.Args) {
		return false
	}
	for i := range e.Args {
		if e.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}

// ClientStatus reports whether vaultkit is registered with a client.
type ClientStatus struct {
	Client     Client       `json:"client"`
	ConfigPath string       `json:"config_path"`
	Exists     bool         `json:"exists"`
	Installed  bool         `json:"installed"`
	Entry      *ServerEntry `json:"entry,omitempty"`
}

// ConfigPath returns the config file path for the given client.
// Pass "" for homeDir to use os.UserHomeDir.
func ConfigPath(client Client, homeDir string) (string, error) {
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
	}

	switch client {
	case ClaudeCode:
		return filepath.Join(homeDir, ".claude.json"), nil
	case ClaudeDesktop:
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(homeDir, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
		case "windows":
			return filepath.Join(homeDir, "AppData", "Roaming", "Claude", "claude_desktop_config.json"), nil
		default:
			return filepath.Join(homeDir, ".config", "Claude", "claude_desktop_config.json"), nil
		}
	case Cursor:
		return filepath.Join(homeDir, ".cursor", "mcp.json"), nil
	default:
		return "", fmt.Errorf("unknown client: %s", client)
	}
}

// ResolveCommand returns the absolute path to the running binary, or
// "vaultkit" when it cannot be determined.
func ResolveCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return "vaultkit"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

// BuildServerEntry returns the serve command line. mappingsPath and
// obsidianDir are pinned into the args when set.
func BuildServerEntry(mappingsPath, obsidianDir string) ServerEntry {
	args := []string{"serve"}
	if mappingsPath != "" {
		args = append(args, "--mappings", mappingsPath)
	}
	if obsidianDir != "" {
		args = append(args, "--obsidian-dir", obsidianDir)
	}
	return ServerEntry{Command: ResolveCommand(), Args: args}
}

// InstallResult describes what happened during an install.
type InstallResult int

const (
	Installed InstallResult = iota
	Updated
	AlreadyInstalled
)

func (r InstallResult) String() string {
	switch r {
	case Installed:
		return "installed"
	case Updated:
		return "updated"
	case AlreadyInstalled:
		return "already_installed"
	default:
		return "unknown"
	}
}

// clientConfig is a decoded client config file. Keys other than our own
// server entry are written back untouched.
type clientConfig struct {
	path   string
	exists bool
	data   map[string]interface{}
}

func loadClientConfig(path string) (*clientConfig, error) {
	c := &clientConfig{path: path, data: map[string]interface{}{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c.exists = true

	if err := json.Unmarshal(raw, &c.data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.data == nil {
		// The file held JSON null.
		c.data = map[string]interface{}{}
	}
	return c, nil
}

// servers returns the mcpServers object, or nil when absent or malformed.
func (c *clientConfig) servers() map[string]interface{} {
	m, _ := c.data["mcpServers"].(map[string]interface{})
	return m
}

// entry decodes our server entry, if present.
func (c *clientConfig) entry() (ServerEntry, bool) {
	raw, ok := c.servers()[ServerKey].(map[string]interface{})
	if !ok {
		return ServerEntry{}, false
	}
	var e ServerEntry
	e.Command, _ = raw["command"].(string)
	if args, ok := raw["args"].([]interface{}); ok {
		for _, a := range args {
			if s, ok := a.(string); ok {
				e.Args = append(e.Args, s)
			}
		}
	}
	return e, true
}

func (c *clientConfig) save() error {
	out, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	out = append(out, '\n')
	return atomicfile.Write(c.path, out, atomicfile.WithParents())
}

// Install adds or updates the vaultkit entry in the client config.
func Install(configPath string, entry ServerEntry) (InstallResult, error) {
	c, err := loadClientConfig(configPath)
	if err != nil {
		return 0, err
	}

	existing, had := c.entry()
	if had && existing.Equal(entry) {
		return AlreadyInstalled, nil
	}

	servers := c.servers()
	if servers == nil {
		servers = map[string]interface{}{}
		c.data["mcpServers"] = servers
	}
	servers[ServerKey] = map[string]interface{}{
		"command": entry.Command,
		"args":    entry.Args,
	}
	if err := c.save(); err != nil {
		return 0, err
	}

	if had {
		return Updated, nil
	}
	return Installed, nil
}

// Remove deletes the vaultkit entry from the client config and reports
// whether one was present. mcpServers is dropped when it becomes empty.
func Remove(configPath string) (bool, error) {
	c, err := loadClientConfig(configPath)
	if err != nil || !c.exists {
		return false, err
	}
	if _, ok := c.entry(); !ok {
		return false, nil
	}

	servers := c.servers()
	delete(servers, ServerKey)
	if len(servers) == 0 {
		delete(c.data, "mcpServers")
	}
	return true, c.save()
}

// Status reports whether vaultkit is registered in the client config.
func Status(client Client, configPath string) (*ClientStatus, error) {
	c, err := loadClientConfig(configPath)
	if err != nil {
		return nil, err
	}

	cs := &ClientStatus{Client: client, ConfigPath: configPath, Exists: c.exists}
	if e, ok := c.entry(); ok {
		cs.Installed = true
		cs.Entry = &e
	}
	return cs, nil
}
