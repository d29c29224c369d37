package schema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/schema"
)

func buildDocument(t *testing.T) *schema.Document {
	t.Helper()
	doc, err := schema.Build(context.Background(), catalog.MustDefault(), "test")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func TestBuildProducesLoadableDocument(t *testing.T) {
	doc := buildDocument(t)

	reloaded, err := schema.Load(context.Background(), doc.JSON())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	rea := reloaded.Spec().Components.Schemas[schema.ComponentName].Value
	if _, ok := rea.Properties["autoriaEspecificar"]; ok {
		t.Fatalf("autoriaEspecificar must not be described")
	}
	if len(rea.Properties) != 15 {
		t.Fatalf("expected 15 properties, got %d", len(rea.Properties))
	}
	if reloaded.Spec().Info.Version != "test" {
		t.Fatalf("version not propagated: %q", reloaded.Spec().Info.Version)
	}
}

func TestValidateExportAcceptsStoreExports(t *testing.T) {
	doc := buildDocument(t)

	empty := form.NewStore()
	if err := doc.ValidateStore(context.Background(), empty); err != nil {
		t.Fatalf("empty record should validate: %v", err)
	}

	full := form.NewStore()
	mustSet(t, full, form.FieldTipoREA, "sda")
	mustSet(t, full, form.FieldTitulo, "Mi REA")
	mustSet(t, full, form.FieldAutoria, "Autor/a individual")
	mustSet(t, full, form.FieldAutoriaEspecificar, "Ana")
	mustSet(t, full, form.FieldLicencia, "CC BY (Reconocimiento)")
	full.SetMembership("Matemáticas", true)
	if err := full.SetFlag(catalog.GroupMetodologias, "met_abp", true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := doc.ValidateStore(context.Background(), full); err != nil {
		t.Fatalf("full record should validate: %v", err)
	}
}

func TestValidateExportReportsViolations(t *testing.T) {
	doc := buildDocument(t)

	cases := map[string]string{
		"unknown option":   `"tipo_rea": "podcast"`,
		"extra property":   `"autoriaEspecificar": "Ana"`,
		"unknown subject":  `"materias": ["Astrología"]`,
		"duplicate flag":   `"metodologias": ["met_abp", "met_abp"]`,
		"wrong value type": `"titulo": ["Mi REA"]`,
	}
	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			payload := exportWith(t, override)
			err := doc.ValidateExport(context.Background(), payload)
			var verr *schema.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Issues) == 0 {
				t.Fatalf("expected at least one issue")
			}
		})
	}
}

func TestValidateExportRejectsMalformedJSON(t *testing.T) {
	err := buildDocument(t).ValidateExport(context.Background(), []byte("{"))
	var verr *schema.ValidationError
	if err == nil || errors.As(err, &verr) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestLoadRejectsEmptyPayload(t *testing.T) {
	if _, err := schema.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected an error for an empty payload")
	}
}

// exportWith takes the JSON export of an empty record and replaces or adds a
// single property.
func exportWith(t *testing.T, property string) []byte {
	t.Helper()
	payload, err := form.NewStore().ToJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	key := property[:strings.Index(property, ":")]
	lines := strings.Split(string(payload), "\n")
	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), key+":") {
			suffix := ""
			if strings.HasSuffix(line, ",") {
				suffix = ","
			}
			lines[i] = "  " + property + suffix
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines[:1], append([]string{"  " + property + ","}, lines[1:]...)...)
	}
	return []byte(strings.Join(lines, "\n"))
}

func mustSet(t *testing.T, store *form.Store, field form.Field, value string) {
	t.Helper()
	if err := store.SetField(field, value); err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
}

func TestValidationErrorPointsAtField(t *testing.T) {
	doc := buildDocument(t)

	err := doc.ValidateExport(context.Background(), exportWith(t, `"idioma": "Klingon"`))
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields()["/idioma"]; !ok {
		t.Fatalf("expected an issue at /idioma, got %v", verr.Fields())
	}
}
