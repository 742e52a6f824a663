package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"xmcp/server/internal/mcp"
	"xmcp/server/internal/middleware"
	"xmcp/server/internal/modules"
	"xmcp/server/internal/modules/x"
	"xmcp/server/internal/observability"
	"xmcp/server/pkg/xapi"
)

func main() {
	// Initialize observability (Loki)
	observability.Init()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8089"
	}

	// X API credential. An empty token is tolerated at startup: the
	// server still answers initialize/tools/list, and each tool call
	// reports the missing credential.
	token := os.Getenv("X_BEARER_TOKEN")
	if token == "" {
		log.Println("WARNING: X_BEARER_TOKEN is not set, tool calls will fail until it is configured")
	}

	var opts []xapi.Option
	if baseURL := os.Getenv("X_API_BASE_URL"); baseURL != "" {
		opts = append(opts, xapi.WithBaseURL(baseURL))
	}
	if timeout := os.Getenv("X_API_TIMEOUT_SECONDS"); timeout != "" {
		secs, err := strconv.Atoi(timeout)
		if err != nil || secs <= 0 {
			log.Fatalf("Invalid X_API_TIMEOUT_SECONDS: %q", timeout)
		}
		opts = append(opts, xapi.WithTimeout(time.Duration(secs)*time.Second))
	}

	modules.RegisterModule(x.New(xapi.NewClient(token, opts...)))
	log.Printf("Registered modules: %v", modules.ListModules())

	// Create router (Go 1.22+ method-aware patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	// MCP endpoint with auth + rate limit + transport middleware.
	// With no MCP_AUTH_SECRET the endpoint is open (local use).
	authenticator := middleware.NewAuthenticator(os.Getenv("MCP_AUTH_SECRET"))
	rateLimiter := middleware.NewRateLimiter(10)
	mcpHandler := mcp.NewHandler()
	mux.Handle("/v1/mcp", middleware.Recovery(authenticator.Authenticate(rateLimiter.Middleware(middleware.Transport(mcpHandler)))))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting MCP server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s, shutting down gracefully...", sig)

	// Give in-flight requests up to 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Printf("Server stopped")
}
