package cli

import (
	"fmt"
	"os"

	"github.com/goliatone/go-reaform/pkg/form"
)

// loadDraft reads a YAML or JSON draft, inferring the encoding from the
// extension. An empty path yields an empty store.
func loadDraft(path string) (*form.Store, error) {
	if path == "" {
		return form.NewStore(), nil
	}
	format, err := form.DraftFormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	defer f.Close()

	store, err := form.LoadDraft(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

func writeDraft(store *form.Store, path string) error {
	format, err := form.DraftFormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	if err := store.WriteDraft(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
