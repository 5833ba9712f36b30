// Package xzqh wires the administrative-code panel form: the generation
// client, the submission controller, the renderer and the front ends that
// drive them.
package xzqh

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-xzqh/pkg/generate"
	"github.com/goliatone/go-xzqh/pkg/render"
	"github.com/goliatone/go-xzqh/pkg/renderers/tui"
	"github.com/goliatone/go-xzqh/pkg/server"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

// Options configures the assembled components.
type Options struct {
	// GeneratorURL is the base URL of the generation service.
	GeneratorURL string
	Timeout      time.Duration
	// Prefix mounts the page host routes.
	Prefix       string
	Title        string
	// ThemeName picks a registered manifest; empty or unknown names use the
	// built-in theme.
	ThemeName    string
	ThemeVariant string
	// Themes are registered alongside the built-in manifest.
	Themes []*theme.Manifest
	// Stylesheet overrides the built-in stylesheet link.
	Stylesheet string
	Logger     logrus.FieldLogger
	HTTPClient *http.Client
}

// EmbeddedTemplates exposes the built-in templates so callers can reuse or
// extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}

// NewController builds the generation client and the submission controller.
func NewController(opts Options) (*submission.Controller, error) {
	if opts.GeneratorURL == "" {
		return nil, errors.New("xzqh: generator URL is required")
	}
	logger := loggerOf(opts)

	clientOpts := []generate.Option{generate.WithLogger(logger)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, generate.WithHTTPClient(opts.HTTPClient))
	} else if opts.Timeout > 0 {
		clientOpts = append(clientOpts, generate.WithHTTPClient(generate.NewHTTPClient(opts.Timeout)))
	}
	client, err := generate.NewClient(opts.GeneratorURL, clientOpts...)
	if err != nil {
		return nil, err
	}

	return submission.New(client,
		submission.WithLogger(logger),
		submission.WithPhaseObserver(func(phase submission.Phase) {
			logger.WithField("phase", phase).Debug("xzqh: submission phase")
		}),
	)
}

// NewHandler assembles the page host.
func NewHandler(opts Options) (http.Handler, error) {
	ctrl, err := NewController(opts)
	if err != nil {
		return nil, err
	}
	stylesheet := opts.Stylesheet
	if stylesheet == "" {
		stylesheet = server.StylesheetPath(opts.Prefix)
	}

	selector, err := render.NewThemeSelector(opts.Themes...)
	if err != nil {
		return nil, err
	}
	themeCfg, err := render.ResolveTheme(selector, opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(
		render.WithTheme(themeCfg),
		render.WithTitle(opts.Title),
		render.WithStylesheet(stylesheet),
	)
	if err != nil {
		return nil, err
	}
	return server.New(ctrl, renderer,
		server.WithPrefix(opts.Prefix),
		server.WithLogger(loggerOf(opts)),
	)
}

// NewSession assembles the terminal front end.
func NewSession(opts Options, options ...tui.Option) (*tui.Session, error) {
	ctrl, err := NewController(opts)
	if err != nil {
		return nil, err
	}
	return tui.New(ctrl, append([]tui.Option{tui.WithLogger(loggerOf(opts))}, options...)...)
}

func loggerOf(opts Options) logrus.FieldLogger {
	if opts.Logger != nil {
		return opts.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
