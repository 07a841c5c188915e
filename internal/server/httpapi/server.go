// Package httpapi is the JSON API used by the web front end.
//
// Routes:
//
//	GET   /ping
//	GET   /api/pace
//	PATCH /api/pace
//	POST  /api/pace/flush
//	GET   /api/shifts/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
//	POST  /api/shifts/export?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Everything under /api requires a bearer token.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

func NewServer(a string, l logging.Logger, secretKey string, ps PaceService, ss ShiftService, es ExportService) *Server {
	l = l.With("module", "http_server")

	h := &handler{pace: ps, shifts: ss, export: es, logger: l}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(l))

	r.GET("/ping", h.ping)

	api := r.Group("/api")
	api.Use(authentication([]byte(secretKey)))
	{
		api.GET("/pace", h.getPace)
		api.PATCH("/pace", h.patchPace)
		api.POST("/pace/flush", h.flushPace)

		api.GET("/shifts/summary", h.shiftSummary)
		api.POST("/shifts/export", h.exportShifts)
	}

	return &Server{address: a, engine: r, logger: l}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
