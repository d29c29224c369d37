package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/session"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	prompts      []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	abortOn      string
}

func (s *stubDriver) record(message string) error {
	s.prompts = append(s.prompts, message)
	if s.abortOn != "" && strings.HasPrefix(message, s.abortOn) {
		return ErrAborted
	}
	return nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if err := s.record(cfg.Message); err != nil {
		return "", err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if err := s.record(cfg.Message); err != nil {
		return false, err
	}
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if err := s.record(cfg.Message); err != nil {
		return -1, err
	}
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if err := s.record(cfg.Message); err != nil {
		return nil, err
	}
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if err := s.record(cfg.Message); err != nil {
		return "", err
	}
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newPage() render.Page {
	return render.Page{
		Session:    session.New(),
		Vocabulary: catalog.MustDefault(),
	}
}

func TestRender_FullWalkthrough(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Mi REA", "Equipo Norte", "3º"},
		selectIdx: []int{1, 5, 1, 1, 3, 2},
		textAreas: []string{"Resumen", "CE1", "SB1"},
		multiIdx:  [][]int{{0}, {0, 3}, {0}, {1}, {1}},
		confirm:   []bool{true},
	}
	dl := &recordingDownloader{}
	r, err := New(WithPromptDriver(driver), WithDownloader(dl))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := newPage()
	out, err := r.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	store := page.Session.Store()
	checks := map[form.Field]string{
		form.FieldTipoREA:                 "sda",
		form.FieldTitulo:                  "Mi REA",
		form.FieldAutoria:                 "Otros (especificar)",
		form.FieldAutoriaEspecificar:      "Equipo Norte",
		form.FieldIdioma:                  "Castellano",
		form.FieldDescripcion:             "Resumen",
		form.FieldLicencia:                "CC BY (Reconocimiento)",
		form.FieldDestinatario:            "Primaria 1º-6º",
		form.FieldCursos:                  "3º",
		form.FieldCompetenciasEspecificas: "CE1",
		form.FieldSaberesBasicos:          "SB1",
		form.FieldNumSesiones:             "2-3 sesiones",
	}
	for field, want := range checks {
		if got := store.Value(field); got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}
	subjects := catalog.MustDefault().Subjects()
	if got := store.Materias(); len(got) != 1 || got[0] != subjects[0] {
		t.Errorf("materias = %v", got)
	}
	if !store.Flag(catalog.GroupCompetenciasClave, "comp_ccl") || !store.Flag(catalog.GroupCompetenciasClave, "comp_cd") {
		t.Errorf("expected comp_ccl and comp_cd set")
	}
	if !store.Flag(catalog.GroupMetodologias, "met_abp") {
		t.Errorf("expected met_abp set")
	}
	if !store.Flag(catalog.GroupAgrupamientos, "agr_parejas") {
		t.Errorf("expected agr_parejas set")
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if decoded["titulo"] != "Mi REA" || decoded["autoria"] != "Equipo Norte" {
		t.Errorf("unexpected output: %s", out)
	}

	if len(dl.names) != 1 || dl.names[0] != "REA_Mi_REA.json" {
		t.Fatalf("downloads = %v", dl.names)
	}
	if !containsPrefix(driver.infoMessages, "ℹ "+session.SavedPrefix+"Mi REA") {
		t.Errorf("missing save confirmation in %v", driver.infoMessages)
	}
	if r.ContentType() != form.FormatJSON.ContentType() {
		t.Errorf("content type = %q", r.ContentType())
	}
}

func TestRender_SkipsHiddenAndDisabledFields(t *testing.T) {
	driver := &stubDriver{
		// titulo, cursos (blank keeps details disabled)
		inputs: []string{"Solo", "  "},
		// tipo, autoria=ikasNOVA, idioma, licencia, destinatario, sesiones
		selectIdx: []int{0, 4, 0, 0, 0, 0},
		textAreas: []string{""},
		multiIdx:  [][]int{{}, {}, {}, {}},
		confirm:   []bool{false},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := newPage()
	if _, err := r.Render(context.Background(), page, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	skipped := []form.Field{form.FieldAutoriaEspecificar, form.FieldCompetenciasEspecificas, form.FieldSaberesBasicos}
	for _, field := range skipped {
		label := render.TextFor(field).Label
		for _, prompt := range driver.prompts {
			if strings.HasPrefix(prompt, label) {
				t.Errorf("field %s should not be prompted", field)
			}
		}
	}
	if got := page.Session.Store().Value(form.FieldAutoria); got != form.AuthorshipSentinel {
		t.Errorf("autoria = %q", got)
	}
	if _, ok := page.Session.Notification(); ok {
		t.Errorf("declined save must not notify")
	}
}

func TestRender_SaveRetriesMissingTitle(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "", "Rescatado"},
		selectIdx: []int{0, 0, 0, 0, 0, 0},
		textAreas: []string{""},
		multiIdx:  [][]int{{}, {}, {}, {}},
		confirm:   []bool{true, true},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(form.FormatCSV))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := newPage()
	out, err := r.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !containsPrefix(driver.infoMessages, "✗ "+session.MissingTitleMessage) {
		t.Errorf("missing validation message in %v", driver.infoMessages)
	}
	if !containsPrefix(driver.infoMessages, "ℹ "+session.SavedPrefix+"Rescatado") {
		t.Errorf("missing confirmation in %v", driver.infoMessages)
	}
	if !strings.Contains(string(out), "titulo,\"Rescatado\"") {
		t.Errorf("csv output = %q", out)
	}
}

func TestRender_KeepsDraftValuesAsDefaults(t *testing.T) {
	page := newPage()
	store := page.Session.Store()
	if err := store.SetField(form.FieldIdioma, "Latín"); err != nil {
		t.Fatalf("set: %v", err)
	}
	driver := &stubDriver{
		abortOn:   render.TextFor(form.FieldDescripcion).Label,
		inputs:    []string{"T"},
		selectIdx: []int{0, 0, 7},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), page, render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	idioma := driver.selects[2]
	if idioma.Options[0] != noneOption || idioma.Options[idioma.DefaultIndex] != "Latín" {
		t.Fatalf("unexpected idioma prompt: %+v", idioma)
	}
	if got := store.Value(form.FieldIdioma); got != "Latín" {
		t.Fatalf("idioma = %q", got)
	}
}

func TestRender_ShowsErrorsBeforeFields(t *testing.T) {
	driver := &stubDriver{abortOn: render.TextFor(form.FieldTipoREA).Label}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), newPage(), render.RenderOptions{
		FormErrors: []string{"fallo general"},
		Errors:     map[string][]string{"tipo_rea": {"valor no permitido"}},
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	want := []string{"✗ fallo general", "✗ valor no permitido"}
	if strings.Join(driver.infoMessages, "|") != strings.Join(want, "|") {
		t.Fatalf("info = %v", driver.infoMessages)
	}
}

func TestNew_RejectsUnknownOutputFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestRender_InvalidPage(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), render.Page{}, render.RenderOptions{}); err == nil {
		t.Fatal("expected error")
	}
}

type recordingDownloader struct {
	names []string
}

func (d *recordingDownloader) Download(filename, _ string, _ []byte) error {
	d.names = append(d.names, filename)
	return nil
}

func containsPrefix(messages []string, prefix string) bool {
	for _, msg := range messages {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
