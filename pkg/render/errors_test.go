package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"/titulo":                {"titulo is required"},
		"body.materias[1]":       {"unknown subject"},
		"$.record.metodologias":  {"duplicate item", " duplicate item "},
		"/autoriaEspecificar":    {"not exported"},
		"non_field_errors":       {"Form level error"},
		"request/body/color":     {"Should fall back to form errors"},
		"":                       {"Unscoped form error"},
		"/agrupamientos/0/extra": {"   "},
	}

	mapped := render.MapErrorPayload(payload)

	wantFields := map[string][]string{
		"titulo":             {"titulo is required"},
		"materias":           {"unknown subject"},
		"metodologias":       {"duplicate item"},
		"autoriaEspecificar": {"not exported"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapError(t *testing.T) {
	mapped := render.MapError(&form.ValidationError{Field: form.FieldTitulo}, "Por favor, completa al menos el título del REA")
	want := render.ErrorMapping{Fields: map[string][]string{"titulo": {"Por favor, completa al menos el título del REA"}}}
	if diff := cmp.Diff(want, mapped); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	other := render.MapError(errors.New("boom"), "")
	if diff := cmp.Diff(render.ErrorMapping{Form: []string{"boom"}}, other); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(render.ErrorMapping{}, render.MapError(nil, "x")); diff != "" {
		t.Fatalf("nil error should map to nothing (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
