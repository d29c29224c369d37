package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/session"
)

// Tab is one section of the form.
type Tab string

const (
	TabDescripcion Tab = "descripcion"
	TabCurricular  Tab = "curricular"
	TabDidactica   Tab = "didactica"
)

var tabOrder = []Tab{TabDescripcion, TabCurricular, TabDidactica}

var tabLabels = map[Tab]string{
	TabDescripcion: "Descripción",
	TabCurricular:  "Ref. Curriculares",
	TabDidactica:   "Prop. Didáctica",
}

var tabFields = map[Tab][]form.Field{
	TabDescripcion: {
		form.FieldTipoREA,
		form.FieldTitulo,
		form.FieldAutoria,
		form.FieldAutoriaEspecificar,
		form.FieldIdioma,
		form.FieldDescripcion,
		form.FieldLicencia,
		form.FieldDestinatario,
	},
	TabCurricular: {
		form.FieldMaterias,
		form.FieldCursos,
		form.FieldCompetenciasClave,
		form.FieldCompetenciasEspecificas,
		form.FieldSaberesBasicos,
	},
	TabDidactica: {
		form.FieldMetodologias,
		form.FieldNumSesiones,
		form.FieldAgrupamientos,
	},
}

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabOrder...)
}

// ParseTab resolves a tab name. Unknown or empty names select the first tab.
func ParseTab(raw string) Tab {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := tabLabels[tab]; ok {
		return tab
	}
	return TabDescripcion
}

// Label returns the display label of the tab.
func (t Tab) Label() string {
	return tabLabels[t]
}

// Fields lists the record fields shown on the tab, in record order. Every
// record field belongs to exactly one tab.
func (t Tab) Fields() []form.Field {
	return append([]form.Field(nil), tabFields[t]...)
}

// TabOf returns the tab that shows field.
func TabOf(field form.Field) (Tab, bool) {
	for _, tab := range tabOrder {
		for _, candidate := range tabFields[tab] {
			if candidate == field {
				return tab, true
			}
		}
	}
	return "", false
}

// Page is everything a renderer needs to draw the form for one session.
type Page struct {
	Session    *session.Session
	Vocabulary *catalog.Vocabulary
	Tab        Tab
}

// Validate reports missing collaborators.
func (p Page) Validate() error {
	if p.Session == nil {
		return errors.New("render: page session is required")
	}
	if p.Vocabulary == nil {
		return errors.New("render: page vocabulary is required")
	}
	return nil
}

// FieldVisible reports whether field is drawn at all. Only the authorship
// specifier is ever hidden.
func (p Page) FieldVisible(field form.Field) bool {
	if field == form.FieldAutoriaEspecificar {
		return p.Session.Store().AuthorshipDetailVisible()
	}
	return true
}

// FieldEnabled reports whether field accepts edits. Disabled fields keep
// their content.
func (p Page) FieldEnabled(field form.Field) bool {
	if form.IsCurricularDetail(field) {
		return p.Session.Store().CurricularDetailsEnabled()
	}
	return true
}
