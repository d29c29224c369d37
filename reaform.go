// Package reaform catalogues Open Educational Resources (REA) through a
// three-tab form and exports the metadata as CSV or JSON.
//
// The building blocks live under pkg/: the record store (pkg/form), the
// transient notifier (pkg/notify), session actions (pkg/session), the export
// schema (pkg/schema) and the HTML and terminal renderers. This package wires
// them with their defaults for the common cases.
package reaform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/renderers/html"
	"github.com/goliatone/go-reaform/pkg/schema"
	"github.com/goliatone/go-reaform/pkg/session"
)

// Version is reported by the CLI and the OpenAPI document.
var Version = "0.1.0"

// RenderOptions aliases render.RenderOptions for callers that only need the
// top-level package.
type RenderOptions = render.RenderOptions

// NewSession returns an empty editing session.
func NewSession(options ...session.Option) *session.Session {
	return session.New(options...)
}

// RenderHTML draws the form for s with the embedded vocabulary and the
// default theme. It is the simplest entry point for callers that just want
// HTML output.
func RenderHTML(ctx context.Context, s *session.Session, tab render.Tab, options RenderOptions) ([]byte, error) {
	vocab, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.Page{Session: s, Vocabulary: vocab, Tab: tab}, options)
}

// ExportSchema returns the OpenAPI document describing JSON exports.
func ExportSchema(ctx context.Context) ([]byte, error) {
	vocab, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	doc, err := schema.Build(ctx, vocab, Version)
	if err != nil {
		return nil, err
	}
	return doc.JSON(), nil
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet the page links to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(reaform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
