// Package testsupport holds helpers shared by the package tests: fixture
// loading, a function-backed generator and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
)

// GeneratorFunc adapts a function to generate.Generator.
type GeneratorFunc func(ctx context.Context, req form.Request) (generate.Response, error)

// Generate implements generate.Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req form.Request) (generate.Response, error) {
	return f(ctx, req)
}

// SuccessGenerator returns a generator answering every request with a
// success envelope pointing at downloadURL.
func SuccessGenerator(downloadURL string) GeneratorFunc {
	return func(context.Context, form.Request) (generate.Response, error) {
		return generate.Response{
			Status: generate.StatusSuccess,
			Meta:   generate.Meta{Downloads: generate.Downloads{ZipFile: downloadURL}},
		}, nil
	}
}

// MustReadFixture reads a fixture file.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
