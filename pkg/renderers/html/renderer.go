package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-reaform/pkg/render"
	rendertemplate "github.com/goliatone/go-reaform/pkg/render/template"
	"github.com/goliatone/go-reaform/pkg/render/template/pongo"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themes           *Themes
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemes replaces the built-in theme set.
func WithThemes(themes *Themes) Option {
	return func(cfg *config) {
		if themes != nil {
			cfg.themes = themes
		}
	}
}

// Renderer draws the three-tab REA form as a single HTML document.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	themes    *Themes
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithFilter("markdown", markdownFilter),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	themes := cfg.themes
	if themes == nil {
		var err error
		themes, err = NewThemes(DefaultTheme, DefaultVariant)
		if err != nil {
			return nil, err
		}
	}
	return &Renderer{templates: renderer, themes: themes}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Themes exposes the theme set, e.g. to validate configuration early.
func (r *Renderer) Themes() *Themes {
	return r.themes
}

// Render draws page. The selected theme may override the page template.
func (r *Renderer) Render(ctx context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	selection, err := r.themes.Select(options.Theme, options.ThemeVariant)
	if err != nil {
		return nil, err
	}
	themeCfg := RendererConfig(selection)

	tmpl := themeCfg.Partials[PageTemplateKey]
	if strings.TrimSpace(tmpl) == "" {
		tmpl = "templates/page.tmpl"
	}

	result, err := r.templates.RenderTemplate(tmpl, buildView(page, options, themeCfg))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
