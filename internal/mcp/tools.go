package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
)

// Tool names.
const (
	ToolDiscoverVaults       = "discover_vaults"
	ToolVaultSummary         = "vault_summary"
	ToolAnalyzeVault         = "analyze_vault"
	ToolSuggestConfig        = "suggest_config"
	ToolValidatePath         = "validate_path"
	ToolListConfiguredVaults = "list_configured_vaults"
)

var toolNames = []string{
	ToolDiscoverVaults,
	ToolVaultSummary,
	ToolAnalyzeVault,
	ToolSuggestConfig,
	ToolValidatePath,
	ToolListConfiguredVaults,
}

func (s *Server) registerTools() {
	s.mcp.AddTool(discoverTool(), s.handleDiscover)
	s.mcp.AddTool(summaryTool(), s.handleSummary)
	s.mcp.AddTool(analyzeTool(), s.handleAnalyze)
	s.mcp.AddTool(suggestTool(), s.handleSuggest)
	s.mcp.AddTool(validatePathTool(), s.handleValidatePath)
	s.mcp.AddTool(listConfiguredTool(), s.handleListConfigured)
}

// --- discover_vaults ---

func discoverTool() mcp.Tool {
	return mcp.NewTool(ToolDiscoverVaults,
		mcp.WithDescription("List Obsidian vaults registered on this machine. By default only vaults that exist, are readable and writable, and contain a .obsidian directory are returned."),
		mcp.WithBoolean("include_inaccessible",
			mcp.Description("Also return vaults that failed a check, with their errors"),
		),
	)
}

func (s *Server) handleDiscover(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := obsidian.DefaultDiscoverOptions()
	opts.IncludeInaccessible = req.GetBool("include_inaccessible", false)

	vaults, err := s.locator.Discover(opts)
	if err != nil {
		return s.toolError(ToolDiscoverVaults, err)
	}
	return jsonResult(vaults)
}

// --- vault_summary ---

func summaryTool() mcp.Tool {
	return mcp.NewTool(ToolVaultSummary,
		mcp.WithDescription("Count registered vaults by accessibility and validity, with per-vault errors."),
	)
}

func (s *Server) handleSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.locator.Summarize())
}

// --- analyze_vault ---

func analyzeTool() mcp.Tool {
	return mcp.NewTool(ToolAnalyzeVault,
		mcp.WithDescription("Classify a vault's folder organization (PARA, Zettelkasten, LYT, Johnny Decimal or custom) and locate key folders such as the inbox."),
		mcp.WithString("path",
			mcp.Description("Absolute path to the vault root"),
			mcp.Required(),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Folder levels to descend below the root's children (default 3)"),
		),
		mcp.WithBoolean("include_validation",
			mcp.Description("Include structural warnings and suggestions (default true)"),
		),
	)
}

func (s *Server) handleAnalyze(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(req)
	if err != nil {
		return s.toolError(ToolAnalyzeVault, err)
	}

	opts := analyzer.AnalyzeOptions{
		MaxDepth:          req.GetInt("max_depth", s.maxDepth),
		IncludeValidation: req.GetBool("include_validation", true),
	}
	result := s.analyzer.Analyze(path, opts)
	if result.Failed() {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// --- suggest_config ---

func suggestTool() mcp.Tool {
	return mcp.NewTool(ToolSuggestConfig,
		mcp.WithDescription("Analyze a vault and propose a vault-mappings entry for it."),
		mcp.WithString("path",
			mcp.Description("Absolute path to the vault root"),
			mcp.Required(),
		),
	)
}

func (s *Server) handleSuggest(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(req)
	if err != nil {
		return s.toolError(ToolSuggestConfig, err)
	}

	result := s.analyzer.Analyze(path, analyzer.AnalyzeOptions{MaxDepth: s.maxDepth, IncludeValidation: true})
	suggestion := analyzer.SuggestConfig(result)
	if suggestion == nil {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(suggestion)
}

// --- validate_path ---

func validatePathTool() mcp.Tool {
	return mcp.NewTool(ToolValidatePath,
		mcp.WithDescription("Normalize a path to its absolute, symlink-resolved form and reject traversal attempts."),
		mcp.WithString("path",
			mcp.Description("Path to validate"),
			mcp.Required(),
		),
		mcp.WithString("base_dir",
			mcp.Description("Optional directory the path must stay inside"),
		),
	)
}

type validatePathResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
}

func (s *Server) handleValidatePath(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts []obsidian.PathOption
	if base := req.GetString("base_dir", ""); base != "" {
		opts = append(opts, obsidian.WithBaseDir(base))
	}

	normalized, err := obsidian.ValidatePathValue(req.GetArguments()["path"], opts...)
	if err != nil {
		return s.toolError(ToolValidatePath, err)
	}
	return jsonResult(validatePathResult{Path: normalized, Valid: true})
}

// --- list_configured_vaults ---

func listConfiguredTool() mcp.Tool {
	return mcp.NewTool(ToolListConfiguredVaults,
		mcp.WithDescription("List vaults saved in vault-mappings.yaml, including disabled ones."),
	)
}

func (s *Server) handleListConfigured(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mappings, err := config.LoadMappings(s.mappingsPath)
	if err != nil {
		return s.toolError(ToolListConfiguredVaults, err)
	}
	return jsonResult(mappings.Vaults)
}

// --- helpers ---

// requirePath validates the path argument before it reaches the filesystem.
func (s *Server) requirePath(req mcp.CallToolRequest) (string, error) {
	return obsidian.ValidatePathValue(req.GetArguments()["path"])
}

func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, error) {
	s.logger.Debug("tool call failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
