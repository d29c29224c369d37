// Package catalog holds the closed vocabularies used to describe an REA: the
// compiled key sets behind the three checkbox groups (competencias clave,
// metodologías, agrupamientos) and the display vocabulary (select options,
// checkbox labels, materias per educational stage) loaded from YAML.
//
// Key sets are fixed at compile time. The YAML vocabulary only supplies
// labels, and loading fails when it names a key the compiled sets do not know
// or omits one they declare.
package catalog
