// Package storage defines the import-directory file system abstraction.
// Notes live in the database once imported; the import directory is only
// ever read, never written by the service.
package storage

// FileMeta is a lightweight description of one importable file.
type FileMeta struct {
	Path     string // relative to the import root
	Checksum string // sha256 of the file content
}

// Provider is the interface for import-directory operations.
type Provider interface {
	// List returns metadata for every markdown file under the import root.
	List() ([]FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
}
