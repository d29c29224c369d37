package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Select fields that carry an option list in the vocabulary.
const (
	OptionsTipoREA      = "tipo_rea"
	OptionsAutoria      = "autoria"
	OptionsIdioma       = "idioma"
	OptionsLicencia     = "licencia"
	OptionsDestinatario = "destinatario"
	OptionsNumSesiones  = "num_sesiones"
)

var optionFields = []string{
	OptionsTipoREA,
	OptionsAutoria,
	OptionsIdioma,
	OptionsLicencia,
	OptionsDestinatario,
	OptionsNumSesiones,
}

// Option is one entry of a select control. A bare YAML scalar sets both the
// value and the label.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// UnmarshalYAML accepts either `- Castellano` or `- {value: x, label: y}`.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Value = node.Value
		o.Label = node.Value
		return nil
	}
	type plain Option
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*o = Option(raw)
	if strings.TrimSpace(o.Label) == "" {
		o.Label = o.Value
	}
	return nil
}

// FlagLabel pairs a checkbox key with its display label.
type FlagLabel struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Stage groups materias by educational stage.
type Stage struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Subjects []string `yaml:"subjects" json:"subjects"`
}

// Vocabulary is the display vocabulary of the form.
type Vocabulary struct {
	Title    string                `yaml:"title" json:"title"`
	Subtitle string                `yaml:"subtitle" json:"subtitle"`
	Options  map[string][]Option   `yaml:"options" json:"options"`
	Flags    map[Group][]FlagLabel `yaml:"flags" json:"flags"`
	Stages   []Stage               `yaml:"materias" json:"materias"`
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
	defaultErr   error
)

// Default returns the embedded vocabulary. The result is shared; callers must
// not mutate it.
func Default() (*Vocabulary, error) {
	defaultOnce.Do(func() {
		defaultVocab, defaultErr = Parse(embeddedVocabulary)
	})
	return defaultVocab, defaultErr
}

// MustDefault panics when the embedded vocabulary fails to load. Useful for
// init-time wiring and tests.
func MustDefault() *Vocabulary {
	vocab, err := Default()
	if err != nil {
		panic(err)
	}
	return vocab
}

// LoadFile reads a vocabulary override from disk.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	vocab, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return vocab, nil
}

// Parse decodes and validates a YAML vocabulary. Subjects within each stage
// are sorted with Spanish collation.
func Parse(data []byte) (*Vocabulary, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("catalog: vocabulary is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var vocab Vocabulary
	if err := dec.Decode(&vocab); err != nil {
		return nil, fmt.Errorf("catalog: decode vocabulary: %w", err)
	}
	if err := vocab.validate(); err != nil {
		return nil, err
	}
	vocab.sortSubjects()
	return &vocab, nil
}

func (v *Vocabulary) validate() error {
	for field := range v.Options {
		if !isOptionField(field) {
			return fmt.Errorf("catalog: unknown option field %q", field)
		}
	}
	for field, options := range v.Options {
		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			if strings.TrimSpace(opt.Value) == "" {
				return fmt.Errorf("catalog: %s has an option without value", field)
			}
			if _, dup := seen[opt.Value]; dup {
				return fmt.Errorf("catalog: %s repeats option %q", field, opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
	}

	for group := range v.Flags {
		if _, ok := ParseGroup(string(group)); !ok {
			return fmt.Errorf("catalog: unknown flag group %q", group)
		}
	}
	for _, group := range Groups() {
		if err := checkFlagLabels(group, v.Flags[group]); err != nil {
			return err
		}
	}

	stageIDs := make(map[string]struct{}, len(v.Stages))
	for _, stage := range v.Stages {
		id := strings.TrimSpace(stage.ID)
		if id == "" {
			return errors.New("catalog: materias stage without id")
		}
		if _, dup := stageIDs[id]; dup {
			return fmt.Errorf("catalog: duplicate materias stage %q", id)
		}
		stageIDs[id] = struct{}{}
	}
	return nil
}

func checkFlagLabels(group Group, labels []FlagLabel) error {
	declared := make(map[string]struct{}, group.Len())
	for _, key := range group.keys() {
		declared[key] = struct{}{}
	}

	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := declared[label.Key]; !ok {
			return fmt.Errorf("catalog: %s: unknown key %q", group, label.Key)
		}
		if _, dup := seen[label.Key]; dup {
			return fmt.Errorf("catalog: %s: duplicate key %q", group, label.Key)
		}
		seen[label.Key] = struct{}{}
	}

	var missing []string
	for _, key := range group.keys() {
		if _, ok := seen[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog: %s: missing labels for %s", group, strings.Join(missing, ", "))
	}
	return nil
}

func (v *Vocabulary) sortSubjects() {
	coll := collate.New(language.Spanish)
	for i := range v.Stages {
		subjects := v.Stages[i].Subjects
		sort.SliceStable(subjects, func(a, b int) bool {
			return coll.CompareString(subjects[a], subjects[b]) < 0
		})
	}
}

// OptionsFor returns the option list for a select field.
func (v *Vocabulary) OptionsFor(field string) []Option {
	if v == nil {
		return nil
	}
	return v.Options[field]
}

// OptionLabel resolves the label of value within field, falling back to the
// raw value.
func (v *Vocabulary) OptionLabel(field, value string) string {
	for _, opt := range v.OptionsFor(field) {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// FlagLabels returns labels for group in the compiled key order.
func (v *Vocabulary) FlagLabels(group Group) []FlagLabel {
	keys := group.keys()
	out := make([]FlagLabel, 0, len(keys))
	for _, key := range keys {
		out = append(out, FlagLabel{Key: key, Label: v.FlagLabel(group, key)})
	}
	return out
}

// FlagLabel resolves the label of key within group, falling back to the key.
func (v *Vocabulary) FlagLabel(group Group, key string) string {
	if v != nil {
		for _, label := range v.Flags[group] {
			if label.Key == key {
				return label.Label
			}
		}
	}
	return key
}

// Subjects returns every subject across stages in stage order, without
// duplicates. The same subject taught in two stages is a single materia.
func (v *Vocabulary) Subjects() []string {
	if v == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, stage := range v.Stages {
		for _, subject := range stage.Subjects {
			if _, ok := seen[subject]; ok {
				continue
			}
			seen[subject] = struct{}{}
			out = append(out, subject)
		}
	}
	return out
}

func isOptionField(field string) bool {
	for _, candidate := range optionFields {
		if candidate == field {
			return true
		}
	}
	return false
}
