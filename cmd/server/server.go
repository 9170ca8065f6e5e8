package server

import (
	"context"
	"net/http"
	"time"

	"github.com/martinsuchenak/portfinder/internal/api"
	"github.com/martinsuchenak/portfinder/internal/app"
	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mcp"
	"github.com/paularlott/cli"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Start the lookup API server",
		Description: "Start an HTTP server answering MAC address lookups as JSON on /api/locate and as MCP tools on /mcp",
		Flags:       append(config.GetFlags(), config.GetServerFlags()...),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()
			cfg := a.Config

			log.Info("Configuration loaded", "listen_addr", cfg.ListenAddr, "inventory", cfg.Inventory, "concurrency", cfg.Concurrency)

			// Switches are resolved per request so inventory edits apply without a restart
			fleet := a.Fleet()
			apiHandler := api.NewHandler(fleet, a.Agents)

			// Create MCP server
			mcpServer := mcp.NewServer(fleet, a.Agents, cfg.MCPToken)

			mux := http.NewServeMux()
			apiHandler.RegisterRoutes(mux)

			// MCP endpoint
			mux.HandleFunc("/mcp", mcpServer.GetHTTPHandler())

			// Apply middleware
			var handler http.Handler = mux
			if cfg.IsAPIAuthEnabled() {
				handler = api.AuthMiddleware(cfg.APIToken, handler)
			}
			handler = api.SecurityHeadersMiddleware(handler)

			server := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Handle shutdown gracefully
			go func() {
				<-ctx.Done()
				log.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()

			log.Info("Starting portfinder server", "addr", cfg.ListenAddr)
			log.Info("API available", "url", "http://localhost"+cfg.ListenAddr+"/api/")
			log.Info("MCP available", "url", "http://localhost"+cfg.ListenAddr+"/mcp")
			if cfg.IsMCPAuthEnabled() {
				log.Info("MCP authentication enabled")
			}
			if cfg.IsAPIAuthEnabled() {
				log.Info("API authentication enabled")
			}
			mcpServer.LogStartup()

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Server error", "error", err)
				return err
			}

			log.Info("Server stopped")
			return nil
		},
	}
}
