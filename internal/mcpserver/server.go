package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/profile"
)

// ProfileStore is the subset of profile.Store the tools need.
type ProfileStore interface {
	profile.Creator
	ListProfiles(ctx context.Context, owner string) ([]*profile.Profile, error)
	GetProfile(ctx context.Context, owner, idOrHandle string) (*profile.Profile, error)
}

// Server exposes the child profiles of one owner as MCP tools over
// streamable HTTP.
type Server struct {
	store      ProfileStore
	ownerID    string
	language   string
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates an MCP server for ownerID's profiles. Profiles created through
// the server default to language. The server is not started until Start.
func New(store ProfileStore, ownerID, language string) *Server {
	return &Server{
		store:    store,
		ownerID:  ownerID,
		language: language,
	}
}

// Start listens on 127.0.0.1:port (0 picks a free port) and serves in the
// background. It returns the bound port.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"mira-profiles",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on port %d", s.port)

	// The goroutine keeps its own reference so Stop can clear the field.
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on %s", s.urlLocked())
	return s.port, nil
}

// Stop shuts the HTTP server down. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(ctx); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urlLocked()
}

func (s *Server) urlLocked() string {
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
