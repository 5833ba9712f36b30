package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "xzqh"

// DefaultManifest returns the built-in palette with a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#1f6feb",
			"danger":  "#d1242f",
			"surface": "#ffffff",
			"text":    "#24292f",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#0d1117",
					"text":    "#e6edf3",
				},
			},
		},
	}
}

// NewThemeSelector registers the built-in manifest plus any extra manifests
// and returns a selector that falls back to the built-in theme. Manifests are
// validated on registration.
func NewThemeSelector(manifests ...*theme.Manifest) (theme.Selector, error) {
	registry := theme.NewRegistry()
	for _, manifest := range append([]*theme.Manifest{DefaultManifest()}, manifests...) {
		if err := registry.Register(manifest); err != nil {
			return theme.Selector{}, fmt.Errorf("render: register theme: %w", err)
		}
	}
	return theme.Selector{Registry: registry, DefaultTheme: DefaultThemeName}, nil
}

// ResolveTheme selects a theme and variant and builds the renderer config.
// An empty or unknown name resolves to the selector's default theme.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme: %w", err)
	}
	if selection.Manifest != nil {
		selection.Theme = selection.Manifest.Name
	}
	cfg := selection.RendererTheme(nil)
	return &cfg, nil
}

// cssVarsStyle renders the :root block for the page head.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}
