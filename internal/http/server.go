// Package http exposes the ledger engine as a small JSON API: the merged
// projected transaction list, the balance summary and the category
// breakdown. The reference date and horizon come from the request, so the
// engine itself never reads the clock.
package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/backend"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/services"
)

// Server wires the ledger service to HTTP handlers.
type Server struct {
	ledger *services.LedgerService
	writer backend.TransactionWriter // optional append endpoint
}

// NewServer builds the http.Server for the given address. writer may be
// nil, which disables the append endpoint.
func NewServer(addr string, ledger *services.LedgerService, writer backend.TransactionWriter) *http.Server {
	s := &Server{ledger: ledger, writer: writer}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAppendTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)

	traced := trace.NewMiddleware(clientIP).Middleware(mux)

	return &http.Server{
		Addr:           addr,
		Handler:        traced,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
