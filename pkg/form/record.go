package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-reaform/pkg/catalog"
)

// AuthorshipSentinel is the autoria value that never takes a specifier.
const AuthorshipSentinel = "ikasNOVA"

var (
	// ErrUnknownField is returned when an edit names a field the record does
	// not declare, or uses the wrong operation for the field kind.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownKey is returned when a flag edit names a key outside the
	// group's compiled key set.
	ErrUnknownKey = errors.New("form: unknown flag key")
)

// Field names a record field. Values match the export keys.
type Field string

const (
	FieldTipoREA                 Field = "tipo_rea"
	FieldTitulo                  Field = "titulo"
	FieldAutoria                 Field = "autoria"
	FieldAutoriaEspecificar      Field = "autoriaEspecificar"
	FieldIdioma                  Field = "idioma"
	FieldDescripcion             Field = "descripcion"
	FieldLicencia                Field = "licencia"
	FieldDestinatario            Field = "destinatario"
	FieldMaterias                Field = "materias"
	FieldCursos                  Field = "cursos"
	FieldCompetenciasClave       Field = "competencias_clave"
	FieldCompetenciasEspecificas Field = "competencias_especificas"
	FieldSaberesBasicos          Field = "saberes_basicos"
	FieldMetodologias            Field = "metodologias"
	FieldNumSesiones             Field = "num_sesiones"
	FieldAgrupamientos           Field = "agrupamientos"
)

// FieldKind classifies how a field is edited and projected.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindScalar
	KindSet
	KindFlags
)

var declarationOrder = []Field{
	FieldTipoREA,
	FieldTitulo,
	FieldAutoria,
	FieldAutoriaEspecificar,
	FieldIdioma,
	FieldDescripcion,
	FieldLicencia,
	FieldDestinatario,
	FieldMaterias,
	FieldCursos,
	FieldCompetenciasClave,
	FieldCompetenciasEspecificas,
	FieldSaberesBasicos,
	FieldMetodologias,
	FieldNumSesiones,
	FieldAgrupamientos,
}

// Fields returns every record field in declaration order.
func Fields() []Field {
	out := make([]Field, len(declarationOrder))
	copy(out, declarationOrder)
	return out
}

// ScalarFields returns the string fields in declaration order.
func ScalarFields() []Field {
	var out []Field
	for _, field := range declarationOrder {
		if field.Kind() == KindScalar {
			out = append(out, field)
		}
	}
	return out
}

// Kind reports how the field is stored.
func (f Field) Kind() FieldKind {
	switch f {
	case FieldMaterias:
		return KindSet
	case FieldCompetenciasClave, FieldMetodologias, FieldAgrupamientos:
		return KindFlags
	case FieldTipoREA, FieldTitulo, FieldAutoria, FieldAutoriaEspecificar,
		FieldIdioma, FieldDescripcion, FieldLicencia, FieldDestinatario,
		FieldCursos, FieldCompetenciasEspecificas, FieldSaberesBasicos,
		FieldNumSesiones:
		return KindScalar
	default:
		return KindUnknown
	}
}

// Group maps a flag field onto its compiled key set.
func (f Field) Group() (catalog.Group, bool) {
	if f.Kind() != KindFlags {
		return "", false
	}
	return catalog.ParseGroup(string(f))
}

// FlagSet is one fixed-shape boolean map. Its key set is the compiled key set
// of its group; keys outside it can never be introduced.
type FlagSet struct {
	group catalog.Group
	on    []bool
}

// NewFlagSet returns a set for group with every key false.
func NewFlagSet(group catalog.Group) FlagSet {
	return FlagSet{group: group, on: make([]bool, group.Len())}
}

// Group returns the key set the flags belong to.
func (f FlagSet) Group() catalog.Group {
	return f.group
}

// Get reports the value of key. Unknown keys read as false.
func (f FlagSet) Get(key string) bool {
	idx := f.group.Index(key)
	if idx < 0 || idx >= len(f.on) {
		return false
	}
	return f.on[idx]
}

// Set updates a single key, leaving the others untouched.
func (f *FlagSet) Set(key string, value bool) error {
	idx := f.group.Index(key)
	if idx < 0 {
		return fmt.Errorf("%w: %s.%s", ErrUnknownKey, f.group, key)
	}
	if len(f.on) != f.group.Len() {
		f.on = make([]bool, f.group.Len())
	}
	f.on[idx] = value
	return nil
}

// Selected lists the keys set to true in declared key order. The result is
// never nil.
func (f FlagSet) Selected() []string {
	out := make([]string, 0, len(f.on))
	for i, key := range f.group.Keys() {
		if i < len(f.on) && f.on[i] {
			out = append(out, key)
		}
	}
	return out
}

// Map returns a copy of the flags keyed by name.
func (f FlagSet) Map() map[string]bool {
	keys := f.group.Keys()
	out := make(map[string]bool, len(keys))
	for i, key := range keys {
		out[key] = i < len(f.on) && f.on[i]
	}
	return out
}

func (f FlagSet) clone() FlagSet {
	on := make([]bool, len(f.on))
	copy(on, f.on)
	return FlagSet{group: f.group, on: on}
}

// Record is the catalogue entry being described.
type Record struct {
	TipoREA                 string
	Titulo                  string
	Autoria                 string
	AutoriaEspecificar      string
	Idioma                  string
	Descripcion             string
	Licencia                string
	Destinatario            string
	Materias                []string
	Cursos                  string
	CompetenciasClave       FlagSet
	CompetenciasEspecificas string
	SaberesBasicos          string
	Metodologias            FlagSet
	NumSesiones             string
	Agrupamientos           FlagSet
}

// NewRecord returns an empty record: blank scalars, no materias, all flags
// false.
func NewRecord() Record {
	return Record{
		Materias:          []string{},
		CompetenciasClave: NewFlagSet(catalog.GroupCompetenciasClave),
		Metodologias:      NewFlagSet(catalog.GroupMetodologias),
		Agrupamientos:     NewFlagSet(catalog.GroupAgrupamientos),
	}
}

// Scalar returns the value of a string field.
func (r Record) Scalar(field Field) (string, bool) {
	ptr := r.scalar(field)
	if ptr == nil {
		return "", false
	}
	return *ptr, true
}

// Flags returns the flag set for a group.
func (r Record) Flags(group catalog.Group) (FlagSet, bool) {
	ptr := r.flags(group)
	if ptr == nil {
		return FlagSet{}, false
	}
	return *ptr, true
}

func (r *Record) scalar(field Field) *string {
	switch field {
	case FieldTipoREA:
		return &r.TipoREA
	case FieldTitulo:
		return &r.Titulo
	case FieldAutoria:
		return &r.Autoria
	case FieldAutoriaEspecificar:
		return &r.AutoriaEspecificar
	case FieldIdioma:
		return &r.Idioma
	case FieldDescripcion:
		return &r.Descripcion
	case FieldLicencia:
		return &r.Licencia
	case FieldDestinatario:
		return &r.Destinatario
	case FieldCursos:
		return &r.Cursos
	case FieldCompetenciasEspecificas:
		return &r.CompetenciasEspecificas
	case FieldSaberesBasicos:
		return &r.SaberesBasicos
	case FieldNumSesiones:
		return &r.NumSesiones
	default:
		return nil
	}
}

func (r *Record) flags(group catalog.Group) *FlagSet {
	switch group {
	case catalog.GroupCompetenciasClave:
		return &r.CompetenciasClave
	case catalog.GroupMetodologias:
		return &r.Metodologias
	case catalog.GroupAgrupamientos:
		return &r.Agrupamientos
	default:
		return nil
	}
}

func (r Record) clone() Record {
	out := r
	out.Materias = append([]string{}, r.Materias...)
	out.CompetenciasClave = r.CompetenciasClave.clone()
	out.Metodologias = r.Metodologias.clone()
	out.Agrupamientos = r.Agrupamientos.clone()
	return out
}
