// Package uploads centralises file upload handling. Each upload kind owns
// its target directory and extension whitelist, so adding a new upload
// surface is a table entry rather than a new handler branch.
package uploads

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultMaxSize caps uploads at 20MB unless configured otherwise
const DefaultMaxSize int64 = 20 << 20

// Kind describes one upload surface
type Kind struct {
	Name       string
	Subdir     string
	Extensions []string
	MaxSize    int64
}

// Store saves uploaded files beneath a root directory and builds their
// public URLs.
type Store struct {
	root    string
	baseURL string
	kinds   map[string]Kind
}

// NewStore builds a store rooted at dir with the standard upload kinds
func NewStore(root, baseURL string, maxSize int64) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	kinds := []Kind{
		{Name: "temp", Subdir: "temp", Extensions: []string{".csv", ".xlsx", ".xls"}, MaxSize: maxSize},
		{Name: "images", Subdir: "images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}, MaxSize: maxSize},
		{Name: "pdfs", Subdir: "pdfs", Extensions: []string{".pdf"}, MaxSize: maxSize},
		{Name: "drivers", Subdir: "drivers", Extensions: []string{".zip", ".exe", ".msi", ".dmg", ".gz"}, MaxSize: maxSize},
	}
	m := make(map[string]Kind, len(kinds))
	for _, k := range kinds {
		m[k.Name] = k
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/"), kinds: m}
}

// Kind returns the named upload kind
func (s *Store) Kind(name string) (Kind, bool) {
	k, ok := s.kinds[name]
	return k, ok
}

// Save writes an uploaded file under the kind's directory with a UUID
// filename and returns the stored path and public URL.
func (s *Store) Save(c *gin.Context, file *multipart.FileHeader, kindName string) (path string, url string, err error) {
	kind, ok := s.kinds[kindName]
	if !ok {
		return "", "", fmt.Errorf("unknown upload kind %q", kindName)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !kind.allows(ext) {
		return "", "", fmt.Errorf("file type %s is not allowed for %s uploads", ext, kind.Name)
	}
	if file.Size > kind.MaxSize {
		return "", "", fmt.Errorf("file exceeds the %dMB size limit", kind.MaxSize>>20)
	}

	dir := filepath.Join(s.root, kind.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + ext
	path = filepath.Join(dir, filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", "", fmt.Errorf("failed to save uploaded file: %w", err)
	}

	url = fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, kind.Subdir, filename)
	return path, url, nil
}

// Remove deletes a stored file. A miss is not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (k Kind) allows(ext string) bool {
	for _, e := range k.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
