package render

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-xzqh/pkg/form"
	rendertemplate "github.com/goliatone/go-xzqh/pkg/render/template"
	"github.com/goliatone/go-xzqh/pkg/render/template/gotemplate"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

const (
	resultTemplate = "templates/result"
	modalTemplate  = "templates/modal"
	pageTemplate   = "templates/page"
)

// DefaultTitle is the page heading.
const DefaultTitle = "行政区划面板生成工具"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	theme      *theme.RendererConfig
	title      string
	stylesheet string
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplateRenderer injects a custom engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithTheme applies a resolved theme to rendered pages.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithTitle overrides the page title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.title = trimmed
		}
	}
}

// WithStylesheet links an external stylesheet from the page head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// Renderer produces the result panel, the modal and the page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs a Renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), title: DefaultTitle}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: configure template engine: %w", err)
		}
		templates = engine
	}

	globals := map[string]any{
		"title":      cfg.title,
		"stylesheet": cfg.stylesheet,
	}
	if cfg.theme != nil {
		globals["theme_css"] = cssVarsStyle(cfg.theme.CSSVars)
		globals["theme_name"] = cfg.theme.Theme
		globals["theme_variant"] = cfg.theme.Variant
	}
	if err := templates.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("render: template globals: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// RenderResult renders the success panel for outcome. The markup is meant to
// replace the whole content of the result container.
func (r *Renderer) RenderResult(outcome submission.Outcome) (string, error) {
	if !outcome.Succeeded() {
		return "", errors.New("render: result requires a successful outcome")
	}
	out, err := r.templates.RenderTemplate(resultTemplate, map[string]any{
		"url":     outcome.DownloadURL,
		"summary": Summary(outcome),
	})
	if err != nil {
		return "", fmt.Errorf("render: result: %w", err)
	}
	return SanitizeFragment(out), nil
}

// RenderModal renders the modal markup for its current state.
func (r *Renderer) RenderModal(modal Modal) (string, error) {
	out, err := r.templates.RenderTemplate(modalTemplate, map[string]any{
		"visible": modal.Visible,
		"message": modal.Message,
	})
	if err != nil {
		return "", fmt.Errorf("render: modal: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PageView is everything the page template needs.
type PageView struct {
	Action      string
	State       form.FormState
	Interactive bool
	Loading     bool
	ResultHTML  string
	Modal       Modal
}

// RenderPage renders the complete form document.
func (r *Renderer) RenderPage(view PageView) ([]byte, error) {
	modalHTML, err := r.RenderModal(view.Modal)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"action":        view.Action,
		"interactive":   view.Interactive,
		"loading":       view.Loading,
		"start_options": yearOptions(view.State.StartOptions, view.State.StartYear),
		"end_options":   yearOptions(view.State.EndOptions, view.State.EndYear),
		"levels":        levelOptions(view.State.Levels, view.State.LevelOrder),
		"parent": map[string]any{
			"yes_checked":  view.State.Parent.Choice == form.ChoiceYes,
			"no_checked":   view.State.Parent.Choice == form.ChoiceNo,
			"yes_disabled": view.State.Parent.YesDisabled,
		},
		"result_html": SanitizeFragment(view.ResultHTML),
		"modal_html":  modalHTML,
	}
	out, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render: page: %w", err)
	}
	return []byte(out), nil
}

// Summary describes the parameters echoed by the service, e.g.
// "2010-2020年 · 地级、县级 · 匹配上级代码". It is empty when the service
// did not echo them.
func Summary(outcome submission.Outcome) string {
	meta := outcome.Meta
	if meta.StartYear == 0 || meta.EndYear == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("%d-%d年", meta.StartYear, meta.EndYear)}
	if len(meta.Levels) > 0 {
		labels := make([]string, 0, len(meta.Levels))
		for _, raw := range meta.Levels {
			labels = append(labels, form.Level(raw).Label())
		}
		parts = append(parts, strings.Join(labels, "、"))
	}
	if meta.IncludeParent {
		parts = append(parts, "匹配上级代码")
	}
	return strings.Join(parts, " · ")
}

func yearOptions(years []int, selected int) []any {
	out := make([]any, 0, len(years))
	for _, year := range years {
		out = append(out, map[string]any{
			"value":    strconv.Itoa(year),
			"selected": year == selected,
		})
	}
	return out
}

func levelOptions(levels form.LevelSet, order []form.Level) []any {
	out := make([]any, 0, len(form.Levels))
	for _, level := range form.ControlOrder(order) {
		out = append(out, map[string]any{
			"value":   string(level),
			"label":   level.Label(),
			"checked": levels.Has(level),
		})
	}
	return out
}

// ResultRenderer turns a successful outcome into result panel markup.
type ResultRenderer interface {
	RenderResult(outcome submission.Outcome) (string, error)
}

var _ ResultRenderer = (*Renderer)(nil)
