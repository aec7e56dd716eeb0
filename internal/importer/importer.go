// Package importer keeps the note database in sync with a watched directory
// of markdown files. Scan does a full one-shot reconciliation; Watch follows
// file system events until the context is cancelled.
package importer

import (
	"log/slog"

	"github.com/starford/dagaz/internal/noteservice"
	"github.com/starford/dagaz/internal/storage"
)

// Importer reads markdown files from a storage provider and feeds them to
// the note service as imported notes keyed by source path.
type Importer struct {
	svc    *noteservice.Service
	files  storage.Provider
	logger *slog.Logger
}

// New creates an importer around the given service and file provider.
func New(svc *noteservice.Service, files storage.Provider, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{svc: svc, files: files, logger: logger}
}

// Scan brings imported notes up to date with the watch directory:
//   - new or changed files are converted and upserted
//   - notes whose source file no longer exists are removed
//
// Unchanged files (matching checksum) are skipped.
func (im *Importer) Scan() error {
	metas, err := im.files.List()
	if err != nil {
		return err
	}

	known, err := im.svc.ImportedChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if known[m.Path] == m.Checksum {
			continue
		}

		if err := im.importPath(m.Path); err != nil {
			im.logger.Warn("scan: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			im.logger.Debug("scan: imported", slog.String("path", m.Path))
		}
	}

	// Remove notes whose source file is gone.
	for p := range known {
		if _, ok := disk[p]; !ok {
			if err := im.svc.RemoveImported(p); err != nil {
				im.logger.Warn("scan: remove failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				im.logger.Debug("scan: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// importPath reads one file and upserts it through the service.
func (im *Importer) importPath(path string) error {
	data, err := im.files.Read(path)
	if err != nil {
		return err
	}
	_, err = im.svc.ImportFile(path, data)
	return err
}
