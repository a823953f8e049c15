package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/passbook-dev/passbook/internal/model"
)

// ErrPersistence wraps I/O failures while loading or saving.
var ErrPersistence = errors.New("persistence error")

// Load reads a store from path. A missing file yields a fresh store.
func Load(path string, policy model.Policy, opts ...Option) (*Store, DecodeReport, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewStore(policy, opts...), DecodeReport{}, nil
	}
	if err != nil {
		return nil, DecodeReport{}, fmt.Errorf("%w: opening %s: %w", ErrPersistence, path, err)
	}
	defer f.Close()

	s, report, err := Decode(f, policy, opts...)
	if err != nil {
		if errors.Is(err, ErrMalformedData) {
			return nil, report, fmt.Errorf("loading %s: %w", path, err)
		}
		return nil, report, fmt.Errorf("%w: reading %s: %w", ErrPersistence, path, err)
	}
	return s, report, nil
}

// Save rewrites path with the full store, creating its directory if needed.
// On failure the in-memory store is unchanged and the caller decides
// whether to retry.
func Save(path string, s *Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir: %w", ErrPersistence, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrPersistence, path, err)
	}
	defer f.Close()

	if err := Encode(f, s); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrPersistence, path, err)
	}
	return nil
}
