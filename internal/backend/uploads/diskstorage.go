package uploads

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	DefaultDirectory   = "public/uploads"
	DefaultPublicPath  = "/uploads"
	DefaultMaxFileSize = 5 * 1024 * 1024

	tokenLength   = 13
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// DiskStorage writes uploaded files into a single directory that is served under PublicPath
type DiskStorage struct {
	directory  string
	publicPath string
	now        func() time.Time

	dirCreated bool
	dirMutex   sync.Mutex
}

func NewDiskStorage(directory, publicPath string) *DiskStorage {
	if directory == "" {
		directory = DefaultDirectory
	}
	if publicPath == "" {
		publicPath = DefaultPublicPath
	}
	return &DiskStorage{
		directory:  directory,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		now:        time.Now,
	}
}

func (s *DiskStorage) createDir() error {
	s.dirMutex.Lock()
	defer s.dirMutex.Unlock()

	if s.dirCreated {
		return nil
	}
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		return err
	}
	s.dirCreated = true
	return nil
}

// Save stores the content under a fresh name that keeps the extension of originalName
// and returns the public path of the stored file.
func (s *DiskStorage) Save(originalName string, reader io.Reader) (string, error) {
	if err := s.createDir(); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName, err := s.newFileName(originalName)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.directory, fileName)

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	written, err := io.Copy(file, reader)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	slog.Debug("stored upload", "file", fullPath, "bytes", written)
	return path.Join(s.publicPath, fileName), nil
}

// Delete removes a file previously returned by Save. Missing files are not an error.
func (s *DiskStorage) Delete(publicPath string) error {
	fileName, ok := strings.CutPrefix(publicPath, s.publicPath+"/")
	if !ok || fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return fmt.Errorf("path %q is not a stored upload", publicPath)
	}
	err := os.Remove(filepath.Join(s.directory, fileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStorage) Directory() string {
	return s.directory
}

func (s *DiskStorage) PublicPath() string {
	return s.publicPath
}

// newFileName builds <unixmillis>-<token><ext>
func (s *DiskStorage) newFileName(originalName string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), token, extensionOf(originalName)), nil
}

// newToken draws tokenLength characters uniformly from tokenAlphabet
func newToken() (string, error) {
	// bytes at or above this bound would favour the first characters of the alphabet
	limit := byte(256 - 256%len(tokenAlphabet))

	token := make([]byte, 0, tokenLength)
	buf := make([]byte, tokenLength*2)
	for len(token) < tokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == tokenLength {
				break
			}
		}
	}
	return string(token), nil
}

// extensionOf keeps the client's extension but never any directory part of the name
func extensionOf(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	ext := filepath.Ext(base)
	if ext == base || strings.ContainsAny(ext, "/\x00") {
		return ""
	}
	return ext
}
