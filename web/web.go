// Package web provides the panel's web server: routing, embedded UI assets,
// and background job scheduling.
package web

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"qatrack/config"
	"qatrack/database"
	"qatrack/logger"
	"qatrack/storage"
	"qatrack/web/controller"
	"qatrack/web/job"
	"qatrack/web/middleware"
	"qatrack/web/service"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html
var htmlFS embed.FS

// Server is the panel web server: one HTTP listener, the report storage
// backing, and the cron scheduler for maintenance jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	store storage.Store
	cron  *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initStore opens the configured report storage backing. Users and audit
// entries always live in the relational database; only report records move
// to the JSON file when the file backing is selected.
func (s *Server) initStore() error {
	if config.GetStorageType() == config.StorageFile {
		store, err := storage.NewFileStore(config.GetDataFilePath())
		if err != nil {
			return err
		}
		s.store = store
		return nil
	}
	s.store = storage.NewGormStore(database.GetDB())
	return nil
}

// initRouter initializes Gin, registers middleware, static assets and
// controllers, and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	// Embedded client UI
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, err
	}
	engine.StaticFS("/assets", http.FS(assets))
	engine.GET("/", func(c *gin.Context) {
		c.FileFromFS("html/login.html", http.FS(htmlFS))
	})
	engine.GET("/app.html", func(c *gin.Context) {
		c.FileFromFS("html/app.html", http.FS(htmlFS))
	})

	authService := service.NewAuthService()
	reportService := service.NewReportService(s.store)
	exportService := service.NewExportService(s.store)

	api := engine.Group("/api")
	api.Use(middleware.Audit())

	controller.NewAuthController(api, authService)

	protected := api.Group("")
	protected.Use(middleware.TokenAuth(authService, false))

	// The export download is also reachable with ?token=, for clients that
	// trigger it via a plain link.
	export := api.Group("")
	export.Use(middleware.TokenAuth(authService, true))

	controller.NewReportController(protected, export, reportService, exportService)
	controller.NewAuditController(protected)
	controller.NewServerController(protected)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@daily", job.NewAuditCleanupJob()); err != nil {
		logger.Warning("add audit cleanup job failed:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = s.initStore(); err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()
	s.startTask()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{Handler: engine}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	logger.Infof("%s %s listening on %s", config.GetName(), config.GetVersion(), addr)
	return nil
}

// Stop shuts the server down and releases its resources.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if fileStore, ok := s.store.(*storage.FileStore); ok {
		if err := fileStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("stop server: %v", errs)
	}
	return nil
}
