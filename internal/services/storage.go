package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Storage persists uploaded blobs and hands back an opaque reference.
type Storage interface {
	Save(folder, filename string, r io.Reader) (string, int64, error)
	Delete(ref string) error
}

// LocalStorage keeps files under a directory on disk, one folder per role.
type LocalStorage struct {
	Dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{Dir: dir}, nil
}

func (s *LocalStorage) Save(folder, filename string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}

	ref := folder + "/" + uuid.NewString() + ext
	path := filepath.Join(s.Dir, filepath.FromSlash(ref))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, fmt.Errorf("create folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}

	return ref, n, nil
}

func (s *LocalStorage) Delete(ref string) error {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage reference: %s", ref)
	}

	err := os.Remove(filepath.Join(s.Dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FolderForRole groups uploads by the uploader's department.
func FolderForRole(role string) string {
	switch role {
	case "rfq":
		return "rfq-folder"
	case "pm":
		return "pm-folder"
	case "estimation":
		return "estimation-folder"
	case "documentation":
		return "document-folder"
	default:
		return "others"
	}
}

var (
	storageMu sync.RWMutex
	storage   Storage
)

func SetStorage(s Storage) Storage {
	storageMu.Lock()
	defer storageMu.Unlock()

	prev := storage
	storage = s
	return prev
}

func CurrentStorage() Storage {
	storageMu.RLock()
	defer storageMu.RUnlock()
	return storage
}
