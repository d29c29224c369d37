package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultTheme   = "ikasnova"
	DefaultVariant = "light"
	// PageTemplateKey names the template slot a manifest can override.
	PageTemplateKey = "page"
	// AssetPrefix is where the server mounts AssetsFS.
	AssetPrefix = "/assets"
)

// DefaultManifest returns the built-in ikasNOVA theme with a light default
// and a high contrast variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":        "#2D7BC2",
			"brand-strong": "#256396",
			"accent":       "#2DC2C2",
			"muted":        "#6080A3",
			"ink":          "#22344A",
			"label":        "#335B84",
			"surface":      "#F0F6FA",
			"border":       "#A9CBE8",
			"page":         "#F5F7FB",
			"frame":        "#CDF1F4",
		},
		Templates: map[string]string{
			PageTemplateKey: "templates/page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: AssetPrefix,
			Files: map[string]string{
				"stylesheet": StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			DefaultVariant: {},
			"contrast": {
				Tokens: map[string]string{
					"brand":   "#0B4F8A",
					"muted":   "#22344A",
					"ink":     "#000000",
					"label":   "#000000",
					"surface": "#FFFFFF",
					"border":  "#22344A",
					"page":    "#FFFFFF",
				},
			},
		},
	}
}

// Themes resolves theme and variant names against registered manifests.
type Themes struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests, checking each one through a go-theme
// registry. With no manifests the built-in theme is used.
func NewThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	themes := &Themes{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("html renderer: register theme %q: %w", manifest.Name, err)
		}
		themes.manifests[manifest.Name] = manifest
	}
	if themes.defaultTheme == "" {
		themes.defaultTheme = DefaultTheme
	}
	if themes.defaultVariant == "" {
		themes.defaultVariant = DefaultVariant
	}
	if _, ok := themes.manifests[themes.defaultTheme]; !ok {
		return nil, fmt.Errorf("html renderer: default theme %q not registered", themes.defaultTheme)
	}
	return themes, nil
}

// Select resolves a theme, falling back to the defaults for empty names.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = t.defaultTheme
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("html renderer: unknown theme %q", name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = t.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok && len(manifest.Variants) > 0 {
		return nil, fmt.Errorf("html renderer: theme %q has no variant %q", name, variant)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists registered themes.
func (t *Themes) Names() []string {
	names := make([]string, 0, len(t.manifests))
	for name := range t.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and every token becomes a CSS custom
// property.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, vars[key])
	}
	return strings.TrimSpace(b.String())
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
