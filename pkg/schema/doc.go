// Package schema publishes an OpenAPI 3 description of the exported REA
// object and validates JSON exports against it.
//
// The document is derived from a catalog.Vocabulary: select fields become
// string enums, materias becomes a unique string array limited to the known
// subjects, and each checkbox group becomes a unique array of its compiled
// keys. Blank values stay valid because exports never require completeness.
package schema
