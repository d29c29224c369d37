package catalog

import _ "embed"

//go:embed vocabulary.yaml
var embeddedVocabulary []byte

// EmbeddedVocabulary returns the raw YAML bundled with the module so callers
// can copy it as a starting point for a custom vocabulary file.
func EmbeddedVocabulary() []byte {
	out := make([]byte, len(embeddedVocabulary))
	copy(out, embeddedVocabulary)
	return out
}
