package form_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
)

func TestLoadDraftReplaysEdits(t *testing.T) {
	store := loadFixture(t)

	if got := store.Value(form.FieldAutoriaEspecificar); got != "Ana" {
		t.Fatalf("specifier: %q", got)
	}
	if diff := cmp.Diff([]string{"Matemáticas", "Educación Física"}, store.Materias()); diff != "" {
		t.Fatalf("materias mismatch (-want +got):\n%s", diff)
	}
	if !store.Flag(catalog.GroupCompetenciasClave, "comp_stem") || store.Flag(catalog.GroupMetodologias, "met_flipped") {
		t.Fatalf("flags not replayed")
	}
}

func TestLoadDraftRejectsUnknownInput(t *testing.T) {
	cases := map[string]struct {
		input  string
		format form.DraftFormat
	}{
		"unknown yaml field": {input: "color: azul\n", format: form.DraftYAML},
		"unknown json field": {input: `{"color":"azul"}`, format: form.DraftJSON},
		"unknown flag key":   {input: "metodologias:\n  met_magia: true\n", format: form.DraftYAML},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := form.LoadDraft(strings.NewReader(tc.input), tc.format); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	_, err := form.LoadDraft(strings.NewReader("agrupamientos:\n  agr_remoto: true\n"), form.DraftYAML)
	if !errors.Is(err, form.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestLoadDraftEmptyYAMLIsEmptyRecord(t *testing.T) {
	store, err := form.LoadDraft(strings.NewReader(""), form.DraftYAML)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(form.NewStore().Project(), store.Project()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDraftRoundTrip(t *testing.T) {
	original := loadFixture(t)

	for _, format := range []form.DraftFormat{form.DraftYAML, form.DraftJSON} {
		var buf bytes.Buffer
		if err := original.WriteDraft(&buf, format); err != nil {
			t.Fatalf("%s write: %v", format, err)
		}
		reloaded, err := form.LoadDraft(&buf, format)
		if err != nil {
			t.Fatalf("%s reload: %v", format, err)
		}
		if diff := cmp.Diff(original.Project(), reloaded.Project()); diff != "" {
			t.Fatalf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
		if got := reloaded.Value(form.FieldAutoriaEspecificar); got != "Ana" {
			t.Fatalf("%s lost the specifier: %q", format, got)
		}
	}
}

func TestDraftFormatFromPath(t *testing.T) {
	for path, want := range map[string]form.DraftFormat{
		"rea.yaml": form.DraftYAML,
		"rea.YML":  form.DraftYAML,
		"rea.json": form.DraftJSON,
	} {
		got, err := form.DraftFormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: want %q, got %q (%v)", path, want, got, err)
		}
	}
	if _, err := form.DraftFormatFromPath("rea.txt"); err == nil {
		t.Fatalf("expected txt to be rejected")
	}
}
