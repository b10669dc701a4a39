package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
)

const (
	storeDirMode  = 0o700
	secretFileMod = 0o600
)

// Store keeps one secret per file under root/<service>/<key>.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Root() string { return s.root }

func (s *Store) Put(ctx context.Context, ref domain.CredentialRef, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create secret directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated secret behind.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".secret-*")
	if err != nil {
		return fmt.Errorf("write file secret %s: %w", ref, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(secretFileMod); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file secret %s: %w", ref, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file secret %s: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write file secret %s: %w", ref, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write file secret %s: %w", ref, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, ref domain.CredentialRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathFor(ref)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %s: %w", ref, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("read file secret %s: %w", ref, err)
	}

	// Hand-edited files usually end in a newline.
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (s *Store) Delete(ctx context.Context, ref domain.CredentialRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file secret %s: %w", ref, domain.ErrSecretNotFound)
		}
		return fmt.Errorf("delete file secret %s: %w", ref, err)
	}

	return nil
}

func (s *Store) pathFor(ref domain.CredentialRef) (string, error) {
	service, err := cleanSegment("service", ref.Service)
	if err != nil {
		return "", err
	}
	key, err := cleanSegment("key", ref.Key)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, service, key), nil
}

func cleanSegment(what, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("secret %s is empty", what)
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret %s %q", what, raw)
	}

	return cleaned, nil
}
