package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads below Root and serves them under PublicPrefix.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, ProjectsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Root: abs}, nil
}

func (s *LocalStore) Save(_ context.Context, dir, name string, body io.Reader, _ int64, _ string) (string, error) {
	target := filepath.Join(s.Root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(target, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return joinPublic(PublicPrefix, dir, name), nil
}

func (s *LocalStore) Remove(_ context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return fmt.Errorf("path %q is not a local upload", publicPath)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Handler serves stored files. Directory listings are answered with 404.
func (s *LocalStore) Handler() http.Handler {
	fs := http.StripPrefix(PublicPrefix, http.FileServer(http.Dir(s.Root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, PublicPrefix)
		info, err := os.Stat(filepath.Join(s.Root, filepath.FromSlash(filepath.Clean("/"+rel))))
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		fs.ServeHTTP(w, r)
	})
}
