package html

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
)

// Control kinds understood by the page template.
const (
	controlSelect     = "select"
	controlText       = "text"
	controlTextarea   = "textarea"
	controlCheckboxes = "checkboxes"
)

var textareas = map[form.Field]int{
	form.FieldDescripcion:             4,
	form.FieldCompetenciasEspecificas: 3,
	form.FieldSaberesBasicos:          3,
}

// buildView flattens the page into plain maps and slices; the template engine
// only sees JSON-shaped data.
func buildView(page render.Page, options render.RenderOptions, themeCfg *theme.RendererConfig) map[string]any {
	vocab := page.Vocabulary
	store := page.Session.Store()
	active := render.ParseTab(string(page.Tab))

	action := options.Action
	if action == "" {
		action = "/"
	}

	tabs := make([]map[string]any, 0, 3)
	panels := make([]map[string]any, 0, 3)
	for _, tab := range render.Tabs() {
		tabs = append(tabs, map[string]any{
			"id":     string(tab),
			"label":  tab.Label(),
			"active": tab == active,
		})

		fields := make([]map[string]any, 0, len(tab.Fields()))
		for _, field := range tab.Fields() {
			if !page.FieldVisible(field) {
				continue
			}
			fields = append(fields, fieldView(page, vocab, store, field, options.Errors[string(field)]))
		}
		panels = append(panels, map[string]any{
			"id":     string(tab),
			"label":  tab.Label(),
			"active": tab == active,
			"fields": fields,
		})
	}

	hidden := render.MergeHiddenFields(options.HiddenFields, render.Hidden("tab", string(active)))
	hiddenView := make([]map[string]any, 0, len(hidden))
	for _, field := range render.SortedHiddenFields(hidden) {
		hiddenView = append(hiddenView, map[string]any{"name": field.Name, "value": field.Value})
	}

	view := map[string]any{
		"title":       vocab.Title,
		"subtitle":    vocab.Subtitle,
		"action":      action,
		"hidden":      hiddenView,
		"tabs":        tabs,
		"panels":      panels,
		"form_errors": render.MergeFormErrors(options.FormErrors),
		"labels": map[string]any{
			"save":        render.SaveLabel,
			"export_csv":  render.ExportCSVLabel,
			"export_json": render.ExportJSONLabel,
			"footer":      render.Footer,
			"hint":        render.CurricularHint,
		},
		"theme": map[string]any{
			"name":       themeCfg.Theme,
			"variant":    themeCfg.Variant,
			"style":      cssVarsStyle(themeCfg.CSSVars),
			"stylesheet": themeCfg.AssetURL("stylesheet"),
		},
	}

	if current, ok := page.Session.Notification(); ok {
		view["notification"] = map[string]any{
			"message":  current.Message,
			"kind":     string(current.Kind),
			"delay_ms": page.Session.Notifier().Delay().Milliseconds(),
		}
	}
	return view
}

func fieldView(page render.Page, vocab *catalog.Vocabulary, store *form.Store, field form.Field, errs []string) map[string]any {
	text := render.TextFor(field)
	view := map[string]any{
		"name":        string(field),
		"label":       text.Label,
		"required":    text.Required,
		"disabled":    !page.FieldEnabled(field),
		"placeholder": page.Placeholder(field),
		"errors":      errs,
		"hint":        "",
	}
	if field == form.FieldCursos {
		view["hint"] = render.CurricularHint
	}

	switch field.Kind() {
	case form.KindSet:
		groups := make([]map[string]any, 0, len(vocab.Stages))
		for _, stage := range vocab.Stages {
			items := make([]map[string]any, 0, len(stage.Subjects))
			for i, subject := range stage.Subjects {
				items = append(items, map[string]any{
					"id":      fmt.Sprintf("materia-%s-%d", stage.ID, i),
					"value":   subject,
					"label":   subject,
					"checked": store.HasMateria(subject),
				})
			}
			groups = append(groups, map[string]any{"label": stage.Label, "items": items})
		}
		view["control"] = controlCheckboxes
		view["groups"] = groups
	case form.KindFlags:
		group, _ := field.Group()
		items := make([]map[string]any, 0, group.Len())
		for _, label := range vocab.FlagLabels(group) {
			items = append(items, map[string]any{
				"id":      label.Key,
				"value":   label.Key,
				"label":   label.Label,
				"checked": store.Flag(group, label.Key),
			})
		}
		view["control"] = controlCheckboxes
		view["groups"] = []map[string]any{{"label": "", "items": items}}
	default:
		value := store.Value(field)
		view["value"] = value
		switch {
		case len(vocab.OptionsFor(string(field))) > 0:
			view["control"] = controlSelect
			view["options"] = optionsView(vocab.OptionsFor(string(field)), value)
		case textareas[field] > 0:
			view["control"] = controlTextarea
			view["rows"] = textareas[field]
			view["preview"] = field == form.FieldDescripcion
		default:
			view["control"] = controlText
		}
	}
	return view
}

func optionsView(options []catalog.Option, selected string) []map[string]any {
	out := make([]map[string]any, 0, len(options)+2)
	out = append(out, map[string]any{"value": "", "label": "Selecciona...", "selected": selected == ""})
	known := false
	for _, opt := range options {
		if opt.Value == selected {
			known = true
		}
		out = append(out, map[string]any{"value": opt.Value, "label": opt.Label, "selected": opt.Value == selected})
	}
	// Values set through the API may fall outside the vocabulary; keep them
	// selectable so a post does not silently drop them.
	if !known && selected != "" {
		out = append(out, map[string]any{"value": selected, "label": selected, "selected": true})
	}
	return out
}
