package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-reaform/pkg/catalog"
)

// DraftFormat selects the encoding of a raw record draft.
type DraftFormat string

const (
	DraftYAML DraftFormat = "yaml"
	DraftJSON DraftFormat = "json"
)

// DraftFormatFromPath infers the draft encoding from a file extension.
func DraftFormatFromPath(path string) (DraftFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DraftYAML, nil
	case ".json":
		return DraftJSON, nil
	default:
		return "", fmt.Errorf("form: cannot infer draft format from %q", path)
	}
}

// draft is the pre-projection shape of a record: autoriaEspecificar is kept
// and checkbox groups are key/boolean maps.
type draft struct {
	TipoREA                 string          `json:"tipo_rea" yaml:"tipo_rea"`
	Titulo                  string          `json:"titulo" yaml:"titulo"`
	Autoria                 string          `json:"autoria" yaml:"autoria"`
	AutoriaEspecificar      string          `json:"autoriaEspecificar" yaml:"autoriaEspecificar"`
	Idioma                  string          `json:"idioma" yaml:"idioma"`
	Descripcion             string          `json:"descripcion" yaml:"descripcion"`
	Licencia                string          `json:"licencia" yaml:"licencia"`
	Destinatario            string          `json:"destinatario" yaml:"destinatario"`
	Materias                []string        `json:"materias" yaml:"materias"`
	Cursos                  string          `json:"cursos" yaml:"cursos"`
	CompetenciasClave       map[string]bool `json:"competencias_clave" yaml:"competencias_clave"`
	CompetenciasEspecificas string          `json:"competencias_especificas" yaml:"competencias_especificas"`
	SaberesBasicos          string          `json:"saberes_basicos" yaml:"saberes_basicos"`
	Metodologias            map[string]bool `json:"metodologias" yaml:"metodologias"`
	NumSesiones             string          `json:"num_sesiones" yaml:"num_sesiones"`
	Agrupamientos           map[string]bool `json:"agrupamientos" yaml:"agrupamientos"`
}

// LoadDraft decodes a raw record and replays it through the store's edit
// operations, so unknown fields or flag keys are rejected.
func LoadDraft(r io.Reader, format DraftFormat) (*Store, error) {
	var d draft
	switch format {
	case DraftYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("form: decode yaml draft: %w", err)
		}
	case DraftJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("form: decode json draft: %w", err)
		}
	default:
		return nil, fmt.Errorf("form: unsupported draft format %q", format)
	}

	store := NewStore()
	scalars := map[Field]string{
		FieldTipoREA:                 d.TipoREA,
		FieldTitulo:                  d.Titulo,
		FieldAutoria:                 d.Autoria,
		FieldAutoriaEspecificar:      d.AutoriaEspecificar,
		FieldIdioma:                  d.Idioma,
		FieldDescripcion:             d.Descripcion,
		FieldLicencia:                d.Licencia,
		FieldDestinatario:            d.Destinatario,
		FieldCursos:                  d.Cursos,
		FieldCompetenciasEspecificas: d.CompetenciasEspecificas,
		FieldSaberesBasicos:          d.SaberesBasicos,
		FieldNumSesiones:             d.NumSesiones,
	}
	for field, value := range scalars {
		if err := store.SetField(field, value); err != nil {
			return nil, err
		}
	}
	for _, item := range d.Materias {
		store.SetMembership(item, true)
	}

	groups := map[catalog.Group]map[string]bool{
		catalog.GroupCompetenciasClave: d.CompetenciasClave,
		catalog.GroupMetodologias:      d.Metodologias,
		catalog.GroupAgrupamientos:     d.Agrupamientos,
	}
	for group, flags := range groups {
		for key, value := range flags {
			if err := store.SetFlag(group, key, value); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

// WriteDraft encodes the raw record so it can be reloaded with LoadDraft.
func (s *Store) WriteDraft(w io.Writer, format DraftFormat) error {
	rec := s.record
	d := draft{
		TipoREA:                 rec.TipoREA,
		Titulo:                  rec.Titulo,
		Autoria:                 rec.Autoria,
		AutoriaEspecificar:      rec.AutoriaEspecificar,
		Idioma:                  rec.Idioma,
		Descripcion:             rec.Descripcion,
		Licencia:                rec.Licencia,
		Destinatario:            rec.Destinatario,
		Materias:                append([]string{}, rec.Materias...),
		Cursos:                  rec.Cursos,
		CompetenciasClave:       rec.CompetenciasClave.Map(),
		CompetenciasEspecificas: rec.CompetenciasEspecificas,
		SaberesBasicos:          rec.SaberesBasicos,
		Metodologias:            rec.Metodologias.Map(),
		NumSesiones:             rec.NumSesiones,
		Agrupamientos:           rec.Agrupamientos.Map(),
	}

	switch format {
	case DraftYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("form: encode yaml draft: %w", err)
		}
		return enc.Close()
	case DraftJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("form: encode json draft: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("form: unsupported draft format %q", format)
	}
}
