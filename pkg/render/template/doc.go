// Package template defines the template seam renderers rely on. The pongo
// subpackage provides the pongo2-backed implementation.
package template
