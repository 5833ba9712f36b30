package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	xzqh "github.com/goliatone/go-xzqh"
	"github.com/goliatone/go-xzqh/internal/config"
	"github.com/goliatone/go-xzqh/pkg/renderers/tui"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	mode := flag.String("mode", "", "serve or tui (overrides XZQH_MODE)")
	repeat := flag.Bool("repeat", false, "tui: offer another round after each attempt")
	flag.Parse()

	cfg, err := config.Load(config.LoadOptions{File: *configPath})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *mode != "" {
		cfg.Mode = *mode
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	logger := cfg.Logger()

	opts := xzqh.Options{
		GeneratorURL: cfg.GeneratorURL,
		Timeout:      cfg.Timeout,
		Prefix:       cfg.Prefix,
		Title:        cfg.Title,
		ThemeName:    cfg.ThemeName,
		ThemeVariant: cfg.ThemeVariant,
		Stylesheet:   cfg.Stylesheet,
		Logger:       logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeTUI:
		session, err := xzqh.NewSession(opts, tui.WithRepeat(*repeat))
		if err != nil {
			log.Fatalf("build session: %v", err)
		}
		if _, err := session.Run(ctx); err != nil {
			if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
				os.Exit(130)
			}
			log.Fatalf("session: %v", err)
		}
	default:
		handler, err := xzqh.NewHandler(opts)
		if err != nil {
			log.Fatalf("build handler: %v", err)
		}
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.WithField("addr", cfg.ListenAddr).WithField("prefix", cfg.Prefix).Info("xzqh-form: listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}
}
