package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Downloader hands a generated file to the user.
type Downloader interface {
	Download(filename, contentType string, payload []byte) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(filename, contentType string, payload []byte) error

// Download implements Downloader.
func (f DownloaderFunc) Download(filename, contentType string, payload []byte) error {
	return f(filename, contentType, payload)
}

// DirDownloader writes downloads into a directory on disk.
type DirDownloader struct {
	Dir string
	// Written records the path of every file written, in order.
	Written []string
}

// Download implements Downloader. Path separators in filename are replaced so
// a title can never escape Dir.
func (d *DirDownloader) Download(filename, _ string, payload []byte) error {
	name := SafeFilename(filename)
	if name == "" {
		return errors.New("session: empty filename")
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("session: write %s: %w", path, err)
	}
	d.Written = append(d.Written, path)
	return nil
}

var unsafeFilenameChars = strings.NewReplacer("/", "-", `\`, "-", "\x00", "")

// SafeFilename strips path separators from a generated filename.
func SafeFilename(name string) string {
	name = unsafeFilenameChars.Replace(strings.TrimSpace(name))
	if name == "." || name == ".." {
		return ""
	}
	return name
}
