package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// UntitledPlaceholder stands in for a blank titulo in exports and
	// filenames.
	UntitledPlaceholder = "Sin título"
	// FilenamePrefix starts every export filename.
	FilenamePrefix = "REA_"

	byteOrderMark = "\uFEFF"
	csvHeader     = "Campo,Valor\n"
)

// Format selects an export serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("form: unsupported export format %q", raw)
	}
}

// Extension returns the filename extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type used when the export is downloaded.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatJSON:
		return "application/json;charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Export is a serialized record ready to hand to a download trigger.
type Export struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// DisplayTitle returns the trimmed titulo, or the placeholder when blank.
func (s *Store) DisplayTitle() string {
	if title := strings.TrimSpace(s.record.Titulo); title != "" {
		return title
	}
	return UntitledPlaceholder
}

// Filename derives "REA_<title>.<ext>" with every whitespace run in the
// title collapsed to a single underscore.
func (s *Store) Filename(format Format) string {
	title := strings.Join(strings.Fields(s.DisplayTitle()), "_")
	return FilenamePrefix + title + "." + format.Extension()
}

// ToCSV renders the projection as a two-column Campo,Valor table prefixed
// with a UTF-8 byte-order mark. The titulo row always comes first; every
// value is quoted with embedded quotes doubled and lists joined by ", ".
func (s *Store) ToCSV() []byte {
	var buf bytes.Buffer
	buf.WriteString(byteOrderMark)
	buf.WriteString(csvHeader)
	writeCSVRow(&buf, string(FieldTitulo), s.DisplayTitle())

	for _, entry := range s.Project() {
		if entry.Key == string(FieldTitulo) {
			continue
		}
		writeCSVRow(&buf, entry.Key, entry.Value.String())
	}
	return buf.Bytes()
}

// ToJSON renders the projection as a flat object indented with two spaces.
// There is no byte-order mark and no trailing newline.
func (s *Store) ToJSON() ([]byte, error) {
	payload, err := encodeIndentedJSON(s.Project())
	if err != nil {
		return nil, fmt.Errorf("form: encode json export: %w", err)
	}
	return payload, nil
}

// Export serializes the record in the requested format.
func (s *Store) Export(format Format) (Export, error) {
	var (
		payload []byte
		err     error
	)
	switch format {
	case FormatCSV:
		payload = s.ToCSV()
	case FormatJSON:
		payload, err = s.ToJSON()
	default:
		err = fmt.Errorf("form: unsupported export format %q", format)
	}
	if err != nil {
		return Export{}, err
	}
	return Export{
		Filename:    s.Filename(format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func writeCSVRow(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteByte(',')
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(value, `"`, `""`))
	buf.WriteByte('"')
	buf.WriteByte('\n')
}

func encodeIndentedJSON(value any) ([]byte, error) {
	raw, err := encodeJSON(value)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
