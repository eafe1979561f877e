// Package storage persists uploaded creative files on the local filesystem.
// Files are renamed to a random hex identifier with the original extension
// kept, so two uploads named poster.png never collide and client-supplied
// names can never traverse out of the upload directory.
package storage

import (
    "encoding/hex"
    "fmt"
    "io"
    "mime/multipart"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
)

// StoredFile describes one persisted upload.
type StoredFile struct {
    // Name is the generated on-disk file name (hex id + extension).
    Name string
    // OriginalName is the name the client sent, kept for display only.
    OriginalName string
    // Path is the public path the file is served under, e.g.
    // /uploads/3f2a...9c.png.
    Path string
    // Size is the number of bytes written.
    Size int64
    // ContentType is the Content-Type reported by the client part.
    ContentType string
}

// Store saves multipart uploads under a base directory.
type Store struct {
    Dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create upload dir: %w", err)
    }
    return &Store{Dir: dir}, nil
}

// Save writes one multipart file to disk under a fresh random name and
// returns its metadata.  The partially written file is removed when the copy
// fails so the directory never accumulates truncated uploads.
func (s *Store) Save(fh *multipart.FileHeader) (StoredFile, error) {
    src, err := fh.Open()
    if err != nil {
        return StoredFile{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
    }
    defer src.Close()

    id := uuid.New()
    name := hex.EncodeToString(id[:]) + safeExt(fh.Filename)
    dstPath := filepath.Join(s.Dir, name)

    dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
    if err != nil {
        return StoredFile{}, fmt.Errorf("create %q: %w", dstPath, err)
    }

    n, err := io.Copy(dst, src)
    cerr := dst.Close()
    if err == nil {
        err = cerr
    }
    if err != nil {
        _ = os.Remove(dstPath)
        return StoredFile{}, fmt.Errorf("write %q: %w", dstPath, err)
    }

    return StoredFile{
        Name:         name,
        OriginalName: fh.Filename,
        Path:         "/uploads/" + name,
        Size:         n,
        ContentType:  fh.Header.Get("Content-Type"),
    }, nil
}

// Remove deletes a previously saved file by its generated name.  Used to
// clean up after a failed intake transaction.
func (s *Store) Remove(name string) {
    if name == "" || strings.ContainsAny(name, "/\\") {
        return
    }
    _ = os.Remove(filepath.Join(s.Dir, name))
}

// safeExt returns a lowercase extension limited to a sane length; anything
// odd is dropped rather than copied onto disk.
func safeExt(filename string) string {
    ext := strings.ToLower(filepath.Ext(filename))
    if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
        return ""
    }
    return ext
}
