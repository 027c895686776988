// Package export bundles a session's captures into one downloadable zip.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherecam/spherecam/pkg/core"
)

// MetadataFile is the name of the metadata entry inside the archive.
const MetadataFile = "metadata.json"

// ErrNothingToExport is returned when a session has no captures yet.
var ErrNothingToExport = errors.New("no photos to export")

// Archive is a finished export ready to be handed to the download mechanism.
type Archive struct {
	Name string
	Data []byte
}

// Filename names the archive after the export time, with the colons of the
// ISO timestamp replaced so it is valid on every filesystem.
func Filename(now time.Time) string {
	ts := now.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return "photos-" + strings.ReplaceAll(ts, ":", "-") + ".zip"
}

// Build writes every capture under its own name plus metadata.json, in
// capture order.
func Build(captures []core.Capture, now time.Time) (Archive, error) {
	if len(captures) == 0 {
		return Archive{}, ErrNothingToExport
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	metadata := make([]core.CaptureMetadata, 0, len(captures))
	for _, c := range captures {
		hdr := &zip.FileHeader{
			Name:     c.Name,
			Method:   zip.Deflate,
			Modified: c.TakenAt,
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return Archive{}, fmt.Errorf("add %s: %w", c.Name, err)
		}
		if _, err := w.Write(c.Payload); err != nil {
			return Archive{}, fmt.Errorf("write %s: %w", c.Name, err)
		}
		metadata = append(metadata, c.Metadata)
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return Archive{}, fmt.Errorf("marshal metadata: %w", err)
	}
	w, err := zw.Create(MetadataFile)
	if err != nil {
		return Archive{}, fmt.Errorf("add %s: %w", MetadataFile, err)
	}
	if _, err := w.Write(data); err != nil {
		return Archive{}, fmt.Errorf("write %s: %w", MetadataFile, err)
	}

	if err := zw.Close(); err != nil {
		return Archive{}, fmt.Errorf("close archive: %w", err)
	}

	return Archive{Name: Filename(now), Data: buf.Bytes()}, nil
}

// WriteTo saves the archive under dir and returns the full path.
func (a Archive) WriteTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, nil
}
