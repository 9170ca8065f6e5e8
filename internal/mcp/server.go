// Package mcp exposes MAC lookups to MCP clients over streamable HTTP.
package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/martinsuchenak/portfinder/internal/api"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/paularlott/mcp"
)

const (
	serverName    = "portfinder"
	serverVersion = "1.0.0"
)

// Server answers locate_mac and list_switches tool calls with the same
// locator and switch list as the JSON API.
type Server struct {
	server  *mcp.Server
	locator api.Locator
	agents  api.AgentSource
	token   string
}

// NewServer creates the MCP server; an empty token disables authentication
func NewServer(locator api.Locator, agents api.AgentSource, token string) *Server {
	s := &Server{
		server:  mcp.NewServer(serverName, serverVersion),
		locator: locator,
		agents:  agents,
		token:   token,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.server.RegisterTool(
		mcp.NewTool("locate_mac", "Find the switch port a MAC address is connected to. Every configured switch is queried in order and reports port -1 when the address is not in its forwarding table.",
			mcp.String("mac", "MAC address as six colon-separated hex octets, e.g. AA:BB:CC:DD:EE:FF", mcp.Required()),
		),
		s.handleLocate,
	)

	s.server.RegisterTool(
		mcp.NewTool("list_switches", "List the switches MAC lookups query, in query order"),
		s.handleListSwitches,
	)
}

// GetHTTPHandler returns the handler mounted at /mcp
func (s *Server) GetHTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && !validBearer(r.Header.Get("Authorization"), s.token) {
			log.Warn("Rejected MCP request", "remote", r.RemoteAddr)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.server.HandleRequest(w, r)
	}
}

// LogStartup logs the registered tools
func (s *Server) LogStartup() {
	log.Info("MCP tools registered", "tools", "locate_mac, list_switches", "auth", s.token != "")
}

func (s *Server) handleLocate(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	macText, err := req.String("mac")
	if err != nil {
		return nil, fmt.Errorf("mac is required")
	}

	resp, err := s.locate(ctx, macText)
	if err != nil {
		return nil, err
	}
	return jsonResponse(resp)
}

func (s *Server) handleListSwitches(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	agents, err := s.agents()
	if err != nil {
		return nil, err
	}
	return jsonResponse(agents)
}

func (s *Server) locate(ctx context.Context, macText string) (*api.LocateResponse, error) {
	agents, err := s.agents()
	if err != nil {
		return nil, err
	}

	results, err := s.locator.Locate(ctx, macText, agents, nil)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.Result{}
	}

	found := finder.AnyFound(results)
	log.Info("MCP locate completed", "mac", macText, "agents", len(agents), "found", found)
	return &api.LocateResponse{MAC: macText, Found: found, Results: results}, nil
}

func jsonResponse(v any) (*mcp.ToolResponse, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResponseText(string(data)), nil
}

func validBearer(header, token string) bool {
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(value), []byte(token)) == 1
}
