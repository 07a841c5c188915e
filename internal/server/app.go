// Package server wires configuration, the database, services and transports
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/server/config"
	"github.com/dmitrijs2005/tippace/internal/server/httpapi"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tippace/internal/server/services"
	"github.com/jonboulle/clockwork"

	gs "github.com/dmitrijs2005/tippace/internal/server/grpc"
)

// flushTimeout bounds the final write of open pace sessions on shutdown.
const flushTimeout = 10 * time.Second

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	clock         clockwork.Clock
	paceService   *services.PaceService
	shiftService  *services.ShiftService
	exportService *services.ExportService
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	clock := clockwork.NewRealClock()

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		clock:         clock,
		paceService:   services.NewPaceService(db, rm, c, clock, logger),
		shiftService:  services.NewShiftService(db, rm),
		exportService: services.NewExportService(db, rm, c, clock),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.config.SecretKey,
		app.paceService, app.shiftService, app.exportService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.logger, app.db, app.clock, gs.DefaultCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or a transport fails, then flushes every
// open pace session and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := app.paceService.Close(flushCtx); err != nil {
		app.logger.Error(flushCtx, "pace flush on shutdown failed", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(flushCtx, "db close failed", "error", err)
	}

	app.logger.Info(flushCtx, "App stopped")
}
