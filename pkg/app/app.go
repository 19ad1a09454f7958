package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsdesk/pkg/api"
	"newsdesk/pkg/config"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/handlers"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/logger"
	"newsdesk/pkg/server"
	"newsdesk/pkg/services"
	"newsdesk/pkg/session"
	"newsdesk/web"

	"github.com/gin-gonic/gin"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("starting newsdesk", "env", cfg.Env, "api", cfg.API.BaseURL, "demo_fallback", cfg.DemoFallback)

	r, err := NewEngine(cfg, log)
	if err != nil {
		log.FatalErr("failed to build router", err)
	}

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("listening", "address", srv.Addr())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		if err != nil {
			log.ErrorErr("server stopped", err)
		}
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown failed", err)
	}
}

// NewEngine wires every dependency into a ready gin engine.
func NewEngine(cfg *config.Config, log logger.Log) (*gin.Engine, error) {
	validator, err := forms.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	var demo *services.Demo
	if cfg.DemoFallback {
		if demo, err = services.LoadDemo(); err != nil {
			return nil, err
		}
		log.Warn("demo fallback enabled: sample data is shown when the API fails")
	}

	h := handlers.New(handlers.Deps{
		Log:        log,
		API:        api.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
		Validator:  validator,
		Categories: services.NewCategoryCache(cfg.Listing.CategoryCacheTTL),
		Debouncer:  listing.NewDebouncer(cfg.Listing.SearchDebounce),
		Importer:   services.NewImporter(nil, cfg.Import.Timeout),
		Demo:       demo,
		Options: handlers.Options{
			PageSize:       cfg.Listing.PageSize,
			ReaderPageSize: cfg.Listing.ReaderPageSize,
			UploadMaxBytes: cfg.Upload.MaxBytes,
		},
	})

	r := gin.New()
	r.Use(gin.Recovery(), handlers.LoggingMiddleware(log))
	r.Use(session.Middleware(session.Options{
		Name:   cfg.Session.Name,
		Secret: []byte(cfg.Session.Secret),
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	})...)

	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())
	h.Routes(r)
	return r, nil
}
