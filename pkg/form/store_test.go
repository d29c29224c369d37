package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
)

func TestNewStoreStartsEmpty(t *testing.T) {
	store := form.NewStore()

	for _, field := range form.ScalarFields() {
		if got := store.Value(field); got != "" {
			t.Fatalf("%s: want empty, got %q", field, got)
		}
	}
	if len(store.Materias()) != 0 {
		t.Fatalf("materias should start empty")
	}
	for _, group := range catalog.Groups() {
		for _, key := range group.Keys() {
			if store.Flag(group, key) {
				t.Fatalf("%s.%s should start false", group, key)
			}
		}
	}
}

func TestSetFieldReplacesScalar(t *testing.T) {
	store := form.NewStore()

	mustSet(t, store, form.FieldTitulo, "Primero")
	mustSet(t, store, form.FieldTitulo, "  ")
	if got := store.Value(form.FieldTitulo); got != "  " {
		t.Fatalf("edits must not validate or trim, got %q", got)
	}
}

func TestSetFieldRejectsNonScalar(t *testing.T) {
	store := form.NewStore()

	for _, field := range []form.Field{form.FieldMaterias, form.FieldMetodologias, "desconocido"} {
		if err := store.SetField(field, "x"); !errors.Is(err, form.ErrUnknownField) {
			t.Fatalf("%s: expected ErrUnknownField, got %v", field, err)
		}
	}
}

func TestSetMembershipIsIdempotent(t *testing.T) {
	store := form.NewStore()

	store.SetMembership("Matemáticas", true)
	store.SetMembership("Música", true)
	store.SetMembership("Matemáticas", true)
	if diff := cmp.Diff([]string{"Matemáticas", "Música"}, store.Materias()); diff != "" {
		t.Fatalf("materias mismatch (-want +got):\n%s", diff)
	}

	store.SetMembership("Física y Química", false)
	if diff := cmp.Diff([]string{"Matemáticas", "Música"}, store.Materias()); diff != "" {
		t.Fatalf("removing an absent item changed the set (-want +got):\n%s", diff)
	}

	store.SetMembership("Matemáticas", false)
	store.SetMembership("Matemáticas", false)
	if diff := cmp.Diff([]string{"Música"}, store.Materias()); diff != "" {
		t.Fatalf("materias mismatch after removal (-want +got):\n%s", diff)
	}
}

func TestMateriasReturnsCopy(t *testing.T) {
	store := form.NewStore()
	store.SetMembership("Música", true)

	items := store.Materias()
	items[0] = "otra"
	if !store.HasMateria("Música") {
		t.Fatalf("mutating the returned slice must not affect the store")
	}
}

func TestSetFlagTouchesSingleKey(t *testing.T) {
	store := form.NewStore()

	if err := store.SetFlag(catalog.GroupMetodologias, "met_steam", true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	for _, key := range catalog.GroupMetodologias.Keys() {
		want := key == "met_steam"
		if got := store.Flag(catalog.GroupMetodologias, key); got != want {
			t.Fatalf("%s: want %v, got %v", key, want, got)
		}
	}
}

func TestSetFlagRejectsUnknownKeys(t *testing.T) {
	store := form.NewStore()

	if err := store.SetFlag(catalog.GroupAgrupamientos, "agr_remoto", true); !errors.Is(err, form.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if err := store.SetFlag("materias", "x", true); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	flags, _ := store.Record().Flags(catalog.GroupAgrupamientos)
	if len(flags.Map()) != 8 {
		t.Fatalf("unknown keys must never be introduced, got %v", flags.Map())
	}
}

func TestCurricularDetailsEnabled(t *testing.T) {
	store := form.NewStore()
	if store.CurricularDetailsEnabled() {
		t.Fatalf("empty record should disable curricular details")
	}

	mustSet(t, store, form.FieldCursos, "   ")
	if store.CurricularDetailsEnabled() {
		t.Fatalf("blank cursos should not enable curricular details")
	}

	mustSet(t, store, form.FieldCursos, " 3º ")
	if !store.CurricularDetailsEnabled() {
		t.Fatalf("cursos should enable curricular details")
	}

	mustSet(t, store, form.FieldCursos, "")
	store.SetMembership("Música", true)
	if !store.CurricularDetailsEnabled() {
		t.Fatalf("materias should enable curricular details")
	}
}

func TestDisabledCurricularDetailsKeepContent(t *testing.T) {
	store := form.NewStore()
	store.SetMembership("Música", true)
	mustSet(t, store, form.FieldSaberesBasicos, "Ritmo")

	store.SetMembership("Música", false)
	if store.CurricularDetailsEnabled() {
		t.Fatalf("expected disabled")
	}
	if got := store.Value(form.FieldSaberesBasicos); got != "Ritmo" {
		t.Fatalf("disabled field lost its content: %q", got)
	}
}

func TestAuthorshipDetailVisible(t *testing.T) {
	cases := map[string]bool{
		"":                   false,
		"ikasNOVA":           false,
		"Autor/a individual": true,
		"Equipo de autores":  true,
	}
	for autoria, want := range cases {
		store := form.NewStore()
		mustSet(t, store, form.FieldAutoria, autoria)
		if got := store.AuthorshipDetailVisible(); got != want {
			t.Fatalf("autoria %q: want %v, got %v", autoria, want, got)
		}
	}
}

func TestSave(t *testing.T) {
	store := form.NewStore()
	mustSet(t, store, form.FieldTitulo, "  ")

	_, err := store.Save()
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != form.FieldTitulo {
		t.Fatalf("error should name titulo, got %s", verr.Field)
	}

	mustSet(t, store, form.FieldTitulo, "Mi REA")
	confirmation, err := store.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if confirmation.Title != "Mi REA" {
		t.Fatalf("confirmation title: %q", confirmation.Title)
	}
}

func TestResetDiscardsEdits(t *testing.T) {
	store := form.NewStore()
	mustSet(t, store, form.FieldTitulo, "Mi REA")
	store.SetMembership("Música", true)

	store.Reset()
	if store.Value(form.FieldTitulo) != "" || len(store.Materias()) != 0 {
		t.Fatalf("reset should restore an empty record")
	}
}

func mustSet(t *testing.T, store *form.Store, field form.Field, value string) {
	t.Helper()
	if err := store.SetField(field, value); err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
}
