package catalog

import "strings"

// Group identifies one of the fixed-shape checkbox groups of a record.
type Group string

const (
	GroupCompetenciasClave Group = "competencias_clave"
	GroupMetodologias      Group = "metodologias"
	GroupAgrupamientos     Group = "agrupamientos"
)

var (
	competenciasClaveKeys = []string{
		"comp_ccl", "comp_cp", "comp_stem", "comp_cd",
		"comp_cpsaa", "comp_cc", "comp_ce", "comp_ccec",
	}
	metodologiasKeys = []string{
		"met_abp", "met_problemas", "met_cooperativo", "met_flipped",
		"met_gamificacion", "met_servicio", "met_sda", "met_descubrimiento",
		"met_rincones", "met_globalizado", "met_steam", "met_design", "met_otras",
	}
	agrupamientosKeys = []string{
		"agr_individual", "agr_parejas", "agr_pequeno", "agr_medio",
		"agr_grande", "agr_heterogeneo", "agr_homogeneo", "agr_flexible",
	}
)

// Groups lists every checkbox group in record declaration order.
func Groups() []Group {
	return []Group{GroupCompetenciasClave, GroupMetodologias, GroupAgrupamientos}
}

// ParseGroup resolves a group by its field name.
func ParseGroup(name string) (Group, bool) {
	switch Group(strings.TrimSpace(name)) {
	case GroupCompetenciasClave:
		return GroupCompetenciasClave, true
	case GroupMetodologias:
		return GroupMetodologias, true
	case GroupAgrupamientos:
		return GroupAgrupamientos, true
	default:
		return "", false
	}
}

// Keys returns the declared key order for the group. The slice is a copy.
func (g Group) Keys() []string {
	keys := g.keys()
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Has reports whether key belongs to the group.
func (g Group) Has(key string) bool {
	return g.Index(key) >= 0
}

// Index returns the declared position of key, or -1.
func (g Group) Index(key string) int {
	for i, candidate := range g.keys() {
		if candidate == key {
			return i
		}
	}
	return -1
}

// Len reports the number of keys in the group.
func (g Group) Len() int {
	return len(g.keys())
}

func (g Group) keys() []string {
	switch g {
	case GroupCompetenciasClave:
		return competenciasClaveKeys
	case GroupMetodologias:
		return metodologiasKeys
	case GroupAgrupamientos:
		return agrupamientosKeys
	default:
		return nil
	}
}
