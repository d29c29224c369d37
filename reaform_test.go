package reaform

import (
	"context"
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
)

func TestRenderHTML(t *testing.T) {
	s := NewSession()
	if err := s.Store().SetField(form.FieldTitulo, "Fracciones"); err != nil {
		t.Fatalf("set titulo: %v", err)
	}
	out, err := RenderHTML(context.Background(), s, render.TabCurricular, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `value="Fracciones"`) {
		t.Fatalf("expected titulo value in output")
	}
	if !strings.Contains(html, `aria-labelledby="tab-curricular">`) {
		t.Fatalf("expected curricular tab to be active")
	}
}

func TestExportSchema(t *testing.T) {
	raw, err := ExportSchema(context.Background())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI == "" || doc.Info.Version != Version {
		t.Fatalf("unexpected document header: %+v", doc)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("page template: %v", err)
	}
	if _, err := fs.Stat(AssetsFS(), "rea.css"); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
}
