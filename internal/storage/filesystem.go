package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"consentapi/internal/config"
)

// filesystemStorage implements the Storage interface on top of a local
// directory tree. Keys use forward slashes and map to paths under the
// configured root; parent directories are created on demand.
// It is safe for concurrent use by multiple goroutines.
type filesystemStorage struct {
	root string
}

// NewFilesystem creates a filesystem-backed storage rooted at cfg.Root.
// The root directory is created if it does not exist.
func NewFilesystem(cfg config.UploadConfig) (Storage, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("upload root is required")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &filesystemStorage{root: cfg.Root}, nil
}

// resolve maps a storage key to an absolute path under the root.
// Keys are cleaned against a virtual "/" so ".." segments can never
// escape the root.
func (f *filesystemStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.root, filepath.FromSlash(clean)), nil
}

// Put streams the reader into a file under the root, creating parent directories.
func (f *filesystemStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	full, err := f.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create object directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create object file: %w", err)
	}
	written, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}

	st, err := os.Stat(full)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object: %w", err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         written,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the file under the root and returns it as a streaming reader.
func (f *filesystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}

	full, err := f.resolve(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	file, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ObjectInfo{}, err
	}
	if st.IsDir() {
		file.Close()
		return nil, ObjectInfo{}, ErrNotFound
	}

	info := ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(full)),
		LastModified: st.ModTime(),
	}
	return file, info, nil
}

// Delete removes the file under the root; missing files are ignored.
func (f *filesystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
