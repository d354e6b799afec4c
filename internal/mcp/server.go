// Package mcp exposes vault discovery and analysis as MCP tools over stdio,
// so agents can locate and classify vaults without shelling out to the CLI.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "vaultkit"

// Config wires the server to the same settings the CLI uses.
type Config struct {
	Version      string
	Locator      *obsidian.Locator
	Analyzer     *analyzer.Analyzer
	MappingsPath string
	MaxDepth     int
	Logger       *zap.Logger
}

// Server holds the MCP server and the dependencies its tools call into.
// Tool handlers share no mutable state.
type Server struct {
	locator      *obsidian.Locator
	analyzer     *analyzer.Analyzer
	mappingsPath string
	maxDepth     int
	logger       *zap.Logger
	mcp          *server.MCPServer
}

// NewServer creates a server with every tool registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		locator:      cfg.Locator,
		analyzer:     cfg.Analyzer,
		mappingsPath: cfg.MappingsPath,
		maxDepth:     cfg.MaxDepth,
		logger:       cfg.Logger,
	}
	if s.locator == nil {
		s.locator = obsidian.NewLocator()
	}
	if s.analyzer == nil {
		s.analyzer = analyzer.New()
	}
	if s.maxDepth <= 0 {
		s.maxDepth = analyzer.DefaultMaxDepth
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio", zap.Int("tools", len(toolNames)))
	return server.ServeStdio(s.mcp)
}
