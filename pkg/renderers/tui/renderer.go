package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/notify"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/session"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

const (
	noneOption     = "(sin seleccionar)"
	saveMessage    = "¿Guardar el REA?"
	retryMessage   = "¿Quieres indicar el título ahora?"
	formatsMessage = "Formatos a exportar"
)

var textAreaFields = map[form.Field]bool{
	form.FieldDescripcion:             true,
	form.FieldCompetenciasEspecificas: true,
	form.FieldSaberesBasicos:          true,
}

var exportFormats = []form.Format{form.FormatCSV, form.FormatJSON}

// Renderer walks a session through the REA form in the terminal.
type Renderer struct {
	driver       PromptDriver
	outputFormat form.Format
	downloader   session.Downloader
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer with the survey driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(nil),
		outputFormat: form.FormatJSON,
		theme: Theme{
			InfoPrefix:  "ℹ ",
			ErrorPrefix: "✗ ",
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if _, err := form.ParseFormat(string(r.outputFormat)); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return r.outputFormat.ContentType()
}

// Render prompts every field in declaration order, then offers to save and
// export. The returned bytes are the record serialized in the configured
// output format.
func (r *Renderer) Render(ctx context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	for _, msg := range options.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	store := page.Session.Store()
	for _, field := range form.Fields() {
		// Visibility depends on earlier answers, so it is checked per field.
		if !page.FieldVisible(field) || !page.FieldEnabled(field) {
			continue
		}
		for _, msg := range options.Errors[string(field)] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return nil, err
			}
		}
		if err := r.promptField(ctx, page, store, field); err != nil {
			return nil, err
		}
	}

	if err := r.save(ctx, page.Session); err != nil {
		return nil, err
	}
	if err := r.export(ctx, page.Session); err != nil {
		return nil, err
	}

	out, err := store.Export(r.outputFormat)
	if err != nil {
		return nil, fmt.Errorf("tui: serialize record: %w", err)
	}
	return out.Payload, nil
}

func (r *Renderer) promptField(ctx context.Context, page render.Page, store *form.Store, field form.Field) error {
	text := render.TextFor(field)
	message := text.Label
	if text.Required {
		message += " *"
	}

	switch field.Kind() {
	case form.KindScalar:
		if opts := page.Vocabulary.OptionsFor(string(field)); len(opts) > 0 {
			value, err := r.promptOption(ctx, message, opts, store.Value(field))
			if err != nil {
				return err
			}
			return store.SetField(field, value)
		}
		var (
			value string
			err   error
		)
		if textAreaFields[field] {
			value, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: message,
				Default: store.Value(field),
				Help:    page.Placeholder(field),
			})
		} else {
			value, err = r.driver.Input(ctx, InputConfig{
				Message: message,
				Default: store.Value(field),
				Help:    page.Placeholder(field),
			})
		}
		if err != nil {
			return err
		}
		return store.SetField(field, value)

	case form.KindSet:
		subjects := page.Vocabulary.Subjects()
		var defaults []int
		for i, subject := range subjects {
			if store.HasMateria(subject) {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  subjects,
			Defaults: defaults,
			PageSize: 12,
		})
		if err != nil {
			return err
		}
		chosen := make(map[int]bool, len(picked))
		for _, idx := range picked {
			chosen[idx] = true
		}
		for i, subject := range subjects {
			store.SetMembership(subject, chosen[i])
		}
		return nil

	case form.KindFlags:
		group, _ := field.Group()
		labels := page.Vocabulary.FlagLabels(group)
		options := make([]string, len(labels))
		var defaults []int
		for i, label := range labels {
			options[i] = label.Label
			if store.Flag(group, label.Key) {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: defaults,
			PageSize: 13,
		})
		if err != nil {
			return err
		}
		chosen := make(map[int]bool, len(picked))
		for _, idx := range picked {
			chosen[idx] = true
		}
		for i, label := range labels {
			if err := store.SetFlag(group, label.Key, chosen[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("tui: %w: %s", form.ErrUnknownField, field)
}

// promptOption offers the vocabulary options plus an empty choice. A current
// value outside the vocabulary (e.g. from a draft) stays selectable.
func (r *Renderer) promptOption(ctx context.Context, message string, opts []catalog.Option, current string) (string, error) {
	values := []string{""}
	labels := []string{noneOption}
	for _, opt := range opts {
		values = append(values, opt.Value)
		labels = append(labels, opt.Label)
	}
	defaultIdx := indexOf(values, current)
	if defaultIdx < 0 {
		values = append(values, current)
		labels = append(labels, current)
		defaultIdx = len(values) - 1
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIdx,
		PageSize:     12,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return "", ErrNoSelection
	}
	return values[idx], nil
}

func (r *Renderer) save(ctx context.Context, s *session.Session) error {
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: saveMessage, Default: true})
	if err != nil || !ok {
		return err
	}
	for {
		_, saveErr := s.Save()
		if err := r.announce(ctx, s); err != nil {
			return err
		}
		var verr *form.ValidationError
		if saveErr == nil || !errors.As(saveErr, &verr) {
			return saveErr
		}
		retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: retryMessage, Default: true})
		if err != nil || !retry {
			return err
		}
		title, err := r.driver.Input(ctx, InputConfig{Message: render.TextFor(form.FieldTitulo).Label + " *"})
		if err != nil {
			return err
		}
		if err := s.Store().SetField(form.FieldTitulo, title); err != nil {
			return err
		}
	}
}

func (r *Renderer) export(ctx context.Context, s *session.Session) error {
	if r.downloader == nil {
		return nil
	}
	labels := make([]string, len(exportFormats))
	for i, format := range exportFormats {
		labels[i] = strings.ToUpper(format.Extension())
	}
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: formatsMessage, Options: labels})
	if err != nil {
		return err
	}
	for _, idx := range picked {
		if idx < 0 || idx >= len(exportFormats) {
			continue
		}
		out, err := s.Export(exportFormats[idx], r.downloader)
		if err != nil {
			if announceErr := r.announce(ctx, s); announceErr != nil {
				return announceErr
			}
			return err
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+out.Filename); err != nil {
			return err
		}
	}
	return nil
}

// announce prints the session's visible notification, if any.
func (r *Renderer) announce(ctx context.Context, s *session.Session) error {
	n, ok := s.Notification()
	if !ok {
		return nil
	}
	prefix := r.theme.InfoPrefix
	if n.Kind == notify.KindError {
		prefix = r.theme.ErrorPrefix
	}
	return r.driver.Info(ctx, prefix+n.Message)
}
