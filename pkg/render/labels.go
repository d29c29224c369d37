package render

import "github.com/goliatone/go-reaform/pkg/form"

// FieldText is the display copy of one record field.
type FieldText struct {
	Label       string
	Placeholder string
	Required    bool
}

var fieldTexts = map[form.Field]FieldText{
	form.FieldTipoREA:                 {Label: "Tipo de REA", Required: true},
	form.FieldTitulo:                  {Label: "Título", Placeholder: "Introduce el título del REA", Required: true},
	form.FieldAutoria:                 {Label: "Autoría"},
	form.FieldAutoriaEspecificar:      {Label: "Nombre de autor/a, equipo o centro", Placeholder: "Especifique aquí"},
	form.FieldIdioma:                  {Label: "Idioma", Required: true},
	form.FieldDescripcion:             {Label: "Descripción", Placeholder: "Resumen del contenido y propósito educativo del recurso"},
	form.FieldLicencia:                {Label: "Licencia Creative Commons", Required: true},
	form.FieldDestinatario:            {Label: "Destinatario (etapa)", Required: true},
	form.FieldMaterias:                {Label: "Materias"},
	form.FieldCursos:                  {Label: "Cursos (nivel)", Placeholder: "Ej: 3º y 4º de Primaria"},
	form.FieldCompetenciasClave:       {Label: "Competencias clave LOMLOE"},
	form.FieldCompetenciasEspecificas: {Label: "Competencias específicas", Placeholder: "Indica las competencias específicas..."},
	form.FieldSaberesBasicos:          {Label: "Saberes básicos", Placeholder: "Ej: Sentido numérico, Comunicación oral..."},
	form.FieldMetodologias:            {Label: "Metodologías"},
	form.FieldNumSesiones:             {Label: "Número de sesiones"},
	form.FieldAgrupamientos:           {Label: "Agrupamientos"},
}

// Copy shared by every renderer.
const (
	DisabledPlaceholder = "Selecciona una materia o curso para activar"
	CurricularHint      = "Para activar los campos siguientes, selecciona al menos una materia o indica un curso."
	SaveLabel           = "Guardar Etiquetas REA"
	ExportCSVLabel      = "Exportar CSV"
	ExportJSONLabel     = "Exportar Metadatos (JSON)"
	Footer              = "Simulador de catalogación REA · ikasNOVA · Navarra"
)

// TextFor returns the display copy of field. Unknown fields fall back to the
// field name as label.
func TextFor(field form.Field) FieldText {
	if text, ok := fieldTexts[field]; ok {
		return text
	}
	return FieldText{Label: string(field)}
}

// Placeholder returns the placeholder to show for field in its current state.
func (p Page) Placeholder(field form.Field) string {
	if form.IsCurricularDetail(field) && !p.FieldEnabled(field) {
		return DisabledPlaceholder
	}
	return TextFor(field).Placeholder
}
