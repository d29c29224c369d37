package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/goliatone/go-reaform/pkg/session"
)

// responseDownloader streams an export as an attachment on the response.
type responseDownloader struct {
	w    http.ResponseWriter
	sent bool
}

var _ session.Downloader = (*responseDownloader)(nil)

func (d *responseDownloader) Download(filename, contentType string, payload []byte) error {
	if d.sent {
		return errors.New("server: response already carries a download")
	}
	name := session.SafeFilename(filename)
	if name == "" {
		return errors.New("server: empty download filename")
	}
	header := d.w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	header.Set("Content-Length", strconv.Itoa(len(payload)))
	header.Set("Cache-Control", "no-store")
	d.w.WriteHeader(http.StatusOK)
	d.sent = true
	_, err := d.w.Write(payload)
	return err
}
