package html_test

import (
	"context"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/notify"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/renderers/html"
	"github.com/goliatone/go-reaform/pkg/session"
)

func newSession() *session.Session {
	n := notify.New(notify.WithScheduler(notify.SchedulerFunc(func(time.Duration, func()) func() {
		return func() {}
	})))
	return session.New(session.WithNotifier(n))
}

func renderPage(t *testing.T, s *session.Session, tab render.Tab, opts render.RenderOptions) string {
	t.Helper()
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), render.Page{
		Session:    s,
		Vocabulary: catalog.MustDefault(),
		Tab:        tab,
	}, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderDrawsAllPanels(t *testing.T) {
	out := renderPage(t, newSession(), render.TabCurricular, render.RenderOptions{})

	for _, want := range []string{
		`<h1>Etiquetado REA ikasNOVA</h1>`,
		`id="panel-descripcion" role="tabpanel" aria-labelledby="tab-descripcion" hidden>`,
		`id="panel-curricular" role="tabpanel" aria-labelledby="tab-curricular">`,
		`<input type="hidden" name="tab" value="curricular">`,
		`name="materias" value="Matemáticas"`,
		`name="competencias_clave" value="comp_ccl"`,
		`<option value="sda">Secuencia didáctica (SdA)</option>`,
		`value="export-json"`,
		`Simulador de catalogación REA · ikasNOVA · Navarra`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
}

func TestRenderDerivedState(t *testing.T) {
	s := newSession()
	out := renderPage(t, s, render.TabDescripcion, render.RenderOptions{})

	if strings.Contains(out, `id="autoriaEspecificar"`) {
		t.Fatalf("specifier should be hidden without autoria")
	}
	if !strings.Contains(out, `placeholder="Selecciona una materia o curso para activar" disabled>`) {
		t.Fatalf("curricular details should render disabled")
	}

	store := s.Store()
	_ = store.SetField(form.FieldAutoria, "Autor/a individual")
	_ = store.SetField(form.FieldCursos, "3º")
	_ = store.SetField(form.FieldSaberesBasicos, "Ritmo")
	out = renderPage(t, s, render.TabDescripcion, render.RenderOptions{})

	if !strings.Contains(out, `id="autoriaEspecificar"`) {
		t.Fatalf("specifier should be visible")
	}
	if strings.Contains(out, `disabled>Ritmo</textarea>`) || !strings.Contains(out, `>Ritmo</textarea>`) {
		t.Fatalf("saberes básicos should be enabled and keep its content")
	}
}

func TestRenderNotificationAndErrors(t *testing.T) {
	s := newSession()
	_, _ = s.Save()

	out := renderPage(t, s, render.TabDescripcion, render.RenderOptions{
		Errors:       render.MapError(&form.ValidationError{Field: form.FieldTitulo}, session.MissingTitleMessage).Fields,
		HiddenFields: map[string]string{"_csrf": "tok"},
	})

	for _, want := range []string{
		`rea-notification--error`,
		`data-dismiss-after="5000"`,
		`Por favor, completa al menos el título del REA`,
		`value="dismiss"`,
		`rea-field--invalid`,
		`<input type="hidden" name="_csrf" value="tok">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
}

func TestRenderEscapesValuesAndSanitizesPreview(t *testing.T) {
	s := newSession()
	_ = s.Store().SetField(form.FieldTitulo, `"><script>alert(1)</script>`)
	_ = s.Store().SetField(form.FieldDescripcion, "**Negrita** <script>alert(2)</script>")

	out := renderPage(t, s, render.TabDescripcion, render.RenderOptions{})
	if strings.Contains(out, "<script>alert") {
		t.Fatalf("user content must never be emitted unescaped")
	}
	if !strings.Contains(out, "<strong>Negrita</strong>") {
		t.Fatalf("markdown preview missing")
	}
}

func TestRenderThemeVariant(t *testing.T) {
	out := renderPage(t, newSession(), render.TabDescripcion, render.RenderOptions{ThemeVariant: "contrast"})
	if !strings.Contains(out, "--brand: #0B4F8A;") || !strings.Contains(out, `class="rea rea--contrast"`) {
		t.Fatalf("contrast tokens not applied")
	}
	if !strings.Contains(out, `href="/assets/rea.css"`) {
		t.Fatalf("stylesheet link missing")
	}

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = renderer.Render(context.Background(), render.Page{
		Session:    newSession(),
		Vocabulary: catalog.MustDefault(),
	}, render.RenderOptions{ThemeVariant: "neon"})
	if err == nil {
		t.Fatalf("unknown variants must be rejected")
	}
}

func TestThemesSelectAndConfig(t *testing.T) {
	themes, err := html.NewThemes("", "")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	selection, err := themes.Select("", "contrast")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := html.RendererConfig(selection)
	if cfg.Tokens["brand"] != "#0B4F8A" || cfg.Tokens["accent"] != "#2DC2C2" {
		t.Fatalf("variant tokens not merged over base: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--ink"] != "#000000" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if cfg.Partials[html.PageTemplateKey] != "templates/page.tmpl" {
		t.Fatalf("page template missing: %v", cfg.Partials)
	}
	if _, err := themes.Select("otro", ""); err == nil {
		t.Fatalf("unknown theme should fail")
	}

	if _, err := html.NewThemes("otro", "", &theme.Manifest{Name: "base", Version: "1.0.0"}); err == nil {
		t.Fatalf("default theme must be registered")
	}
}

func TestRenderPreview(t *testing.T) {
	got := html.RenderPreview("Visita [ikasNOVA](https://example.org) <img src=x onerror=alert(1)>")
	if strings.Contains(got, "onerror") {
		t.Fatalf("preview not sanitized: %s", got)
	}
	if !strings.Contains(got, `href="https://example.org"`) || !strings.Contains(got, `rel="nofollow`) {
		t.Fatalf("link not preserved: %s", got)
	}
	if html.RenderPreview("   ") != "" {
		t.Fatalf("blank source should render nothing")
	}
}
