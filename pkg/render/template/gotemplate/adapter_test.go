package gotemplate_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-xzqh/pkg/render/template/gotemplate"
	"github.com/goliatone/go-xzqh/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"views/link.tmpl": {Data: []byte(`<a href="{{ url }}">{{ label }}</a>`)},
		"views/years.tmpl": {Data: []byte(`{% for y in years %}{{ y.value }}{% if not forloop.Last %},{% endif %}{% endfor %}`)},
		"views/brand.tmpl": {Data: []byte(`{{ brand }}`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates fs")
	}
}

func TestRenderTemplate_WritesAndEscapes(t *testing.T) {
	engine := newEngine(t)
	out, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("views/link", map[string]any{"url": "/a.zip", "label": "<下载>"}, w)
	})
	if out != written {
		t.Fatalf("returned and written output differ: %q vs %q", out, written)
	}
	if out != `<a href="/a.zip">&lt;下载&gt;</a>` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderTemplate_StructNumbersStayIntegers(t *testing.T) {
	type option struct {
		Value int `json:"value"`
	}
	engine := newEngine(t)
	out, err := engine.RenderTemplate("views/years", map[string]any{
		"years": []option{{Value: 2010}, {Value: 2023}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "2010,2023" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"brand": "xzqh"}))
	out, err := engine.RenderTemplate("views/brand.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != "xzqh" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGlobalContext_MergesAfterConstruction(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"brand": "seed"}))
	if _, err := engine.RenderTemplate("views/brand", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := engine.GlobalContext(map[string]any{"brand": "xzqh"}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	out, err := engine.RenderTemplate("views/brand", map[string]any{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "xzqh" {
		t.Fatalf("unexpected output %q", out)
	}
	out, err = engine.RenderTemplate("views/brand", map[string]any{"brand": "local"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "local" {
		t.Fatalf("render data should shadow globals, got %q", out)
	}
}
