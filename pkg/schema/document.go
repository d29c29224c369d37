package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
)

// ComponentName is the schema component describing one exported record.
const ComponentName = "REA"

// OpenAPIVersion is the version string written into generated documents.
const OpenAPIVersion = "3.0.3"

// enumFields are the projected scalars restricted to vocabulary options.
// autoria is left open because the projection may append the specifier.
var enumFields = []string{
	catalog.OptionsTipoREA,
	catalog.OptionsIdioma,
	catalog.OptionsLicencia,
	catalog.OptionsDestinatario,
	catalog.OptionsNumSesiones,
}

// Document is a loaded and validated OpenAPI description of the export.
type Document struct {
	raw  []byte
	spec *openapi3.T
}

// Build derives the export document from a vocabulary and loads it through
// kin-openapi so it is known to be a valid OpenAPI document.
func Build(ctx context.Context, vocab *catalog.Vocabulary, version string) (*Document, error) {
	if vocab == nil {
		return nil, errors.New("schema: vocabulary is nil")
	}
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	raw, err := json.MarshalIndent(describe(vocab, version), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode document: %w", err)
	}
	return Load(ctx, raw)
}

// Load parses a previously generated document and validates it.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("schema: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("schema: validate document: %w", err)
	}
	if spec.Components == nil || spec.Components.Schemas[ComponentName] == nil {
		return nil, fmt.Errorf("schema: document has no %s component", ComponentName)
	}
	return &Document{raw: append([]byte(nil), raw...), spec: spec}, nil
}

// JSON returns the document bytes.
func (d *Document) JSON() []byte {
	return append([]byte(nil), d.raw...)
}

// Spec exposes the parsed document.
func (d *Document) Spec() *openapi3.T {
	return d.spec
}

// Issue is one schema violation found in an export. Path is a JSON pointer
// to the offending value, empty when the violation concerns the whole object.
type Issue struct {
	Path    string
	Message string
}

// ValidationError collects every violation found in an export.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return "schema: export does not match " + ComponentName + ": " + strings.Join(msgs, "; ")
}

// ValidateExport checks a JSON export payload against the REA component.
// Malformed JSON is reported as a plain error; schema violations as a
// *ValidationError.
func (d *Document) ValidateExport(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("schema: decode export: %w", err)
	}

	ref := d.spec.Components.Schemas[ComponentName]
	err := ref.Value.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		issues := make([]Issue, 0, len(multi))
		for _, item := range multi {
			issues = append(issues, newIssue(item))
		}
		return &ValidationError{Issues: issues}
	}
	return &ValidationError{Issues: []Issue{newIssue(err)}}
}

// Fields groups issue messages by JSON pointer, the shape the renderers
// accept for inline field errors.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

func newIssue(err error) Issue {
	var serr *openapi3.SchemaError
	if errors.As(err, &serr) {
		issue := Issue{Message: serr.Reason}
		if pointer := serr.JSONPointer(); len(pointer) > 0 {
			issue.Path = "/" + strings.Join(pointer, "/")
		}
		if issue.Message == "" {
			issue.Message = serr.Error()
		}
		return issue
	}
	return Issue{Message: err.Error()}
}

// ValidateStore exports the store as JSON and validates the result.
func (d *Document) ValidateStore(ctx context.Context, store *form.Store) error {
	payload, err := store.ToJSON()
	if err != nil {
		return err
	}
	return d.ValidateExport(ctx, payload)
}

func describe(vocab *catalog.Vocabulary, version string) map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0, len(form.Fields()))

	for _, field := range form.Fields() {
		if field == form.FieldAutoriaEspecificar {
			continue
		}
		key := string(field)
		required = append(required, key)

		switch field.Kind() {
		case form.KindSet:
			properties[key] = uniqueArray(vocab.Subjects())
		case form.KindFlags:
			group, _ := field.Group()
			properties[key] = uniqueArray(group.Keys())
		default:
			properties[key] = stringProperty(vocab, key)
		}
	}

	record := map[string]any{
		"type":                 "object",
		"title":                vocab.Title,
		"additionalProperties": false,
		"required":             required,
		"properties":           properties,
	}

	recordRef := map[string]any{"$ref": "#/components/schemas/" + ComponentName}
	jsonResponse := func(description string) map[string]any {
		return map[string]any{
			"200": map[string]any{
				"description": description,
				"content": map[string]any{
					"application/json": map[string]any{"schema": recordRef},
				},
			},
		}
	}

	return map[string]any{
		"openapi": OpenAPIVersion,
		"info": map[string]any{
			"title":       vocab.Title,
			"description": vocab.Subtitle,
			"version":     version,
		},
		"paths": map[string]any{
			"/export.json": map[string]any{
				"get": map[string]any{
					"operationId": "exportJSON",
					"summary":     "Download the current record as JSON",
					"responses":   jsonResponse("Projected record"),
				},
			},
			"/api/record": map[string]any{
				"get": map[string]any{
					"operationId": "getRecord",
					"summary":     "Read the projected record and its derived state",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Projected record with derived flags",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"record":                     recordRef,
											"curricular_details_enabled": map[string]any{"type": "boolean"},
											"authorship_detail_visible":  map[string]any{"type": "boolean"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{ComponentName: record},
		},
	}
}

func stringProperty(vocab *catalog.Vocabulary, key string) map[string]any {
	prop := map[string]any{"type": "string"}
	if !isEnumField(key) {
		return prop
	}
	options := vocab.OptionsFor(key)
	if len(options) == 0 {
		return prop
	}
	values := make([]string, 0, len(options)+1)
	values = append(values, "")
	for _, opt := range options {
		values = append(values, opt.Value)
	}
	prop["enum"] = values
	return prop
}

func uniqueArray(values []string) map[string]any {
	items := map[string]any{"type": "string"}
	if len(values) > 0 {
		enum := append([]string(nil), values...)
		sort.Strings(enum)
		items["enum"] = enum
	}
	return map[string]any{
		"type":        "array",
		"uniqueItems": true,
		"items":       items,
	}
}

func isEnumField(key string) bool {
	for _, candidate := range enumFields {
		if candidate == key {
			return true
		}
	}
	return false
}
