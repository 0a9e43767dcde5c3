package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/qrmenu/utils"
)

const DefaultURLPrefix = "/images/"

// ImageStore keeps menu item pictures. Names returned by Save are relative to
// the store and are exposed to clients as URLPrefix + name.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
	NameFromURL(imageURL string) (string, bool)
}

type LocalImageStore struct {
	baseDir   string
	urlPrefix string
	maxBytes  int64
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func NewLocalImageStore(baseDir string, maxBytes int64) (*LocalImageStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStore{baseDir: baseDir, urlPrefix: DefaultURLPrefix, maxBytes: maxBytes}, nil
}

func (s *LocalImageStore) Dir() string {
	return s.baseDir
}

// Save sniffs the content type, enforces the size limit and writes the file under a random name.
func (s *LocalImageStore) Save(ctx context.Context, r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", utils.Validation("No file was uploaded")
		}
		return "", utils.Internal("read upload", err)
	}
	head = head[:n]

	ext, ok := allowedImageTypes[http.DetectContentType(head)]
	if !ok {
		return "", utils.Validation("Only JPEG, PNG and WEBP images are allowed")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", utils.Internal("create image file", err)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(f, io.LimitReader(body, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.remove(path)
		return "", utils.Internal("write image file", err)
	}
	if written > s.maxBytes {
		s.remove(path)
		return "", utils.Validation(fmt.Sprintf("Image must not exceed %d bytes", s.maxBytes))
	}
	return name, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, name string) error {
	path, err := s.safeJoin(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return utils.NotFound("Image", name)
		}
		return utils.Internal("delete image file", err)
	}
	return nil
}

func (s *LocalImageStore) URL(name string) string {
	return s.urlPrefix + name
}

// NameFromURL extracts the stored file name from an image URL served by this store.
func (s *LocalImageStore) NameFromURL(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, s.urlPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(imageURL, s.urlPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

// safeJoin resolves name inside baseDir and rejects directory traversal.
func (s *LocalImageStore) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", utils.Internal("resolve image directory", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", utils.Validation("Invalid file name")
	}
	if name == "" || !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", utils.Validation("Invalid file name")
	}
	return absPath, nil
}

func (s *LocalImageStore) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.ErrorLogger.Errorf("failed to remove partial image %s: %v", path, err)
	}
}

// RemoveImages deletes the stored files behind the given URLs, ignoring foreign
// URLs and files that are already gone.
func RemoveImages(ctx context.Context, store ImageStore, imageURLs ...string) {
	if store == nil {
		return
	}
	for _, u := range imageURLs {
		name, ok := store.NameFromURL(u)
		if !ok {
			continue
		}
		if err := store.Delete(ctx, name); err != nil && !utils.IsKind(err, utils.KindNotFound) {
			utils.ErrorLogger.Errorf("failed to delete image %s: %v", name, err)
		}
	}
}
