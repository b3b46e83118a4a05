// Package tablecache is the optional on-disk cache SPEC_FULL.md §11
// describes: spec §6 says "no native binary format is mandated," not that
// one is forbidden, so a CLI invocation can skip recompiling a spec file
// it has already compiled before by keying a stored internal/lrtables.
// PackedTable on a hash of the spec source that produced it.
//
// Grounded on _examples/dekarrin-tunaq/server/dao/sqlite/sqlite.go's
// game-state persistence (rezi.EncBinary(g) / rezi.DecBinary(data, g)
// around a *game.State, read from/written to a store keyed by session),
// generalized from a SQL BLOB column to a plain file keyed by spec-source
// hash instead of session id.
package tablecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tamelang/internal/lrtables"
)

// Store is a directory of cached PackedTables, one file per spec source
// hash.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. dir is not created until the first
// Save.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Key hashes spec source text into the cache key Load/Save index by, so
// callers never have to track a table's provenance themselves.
func Key(specSource []byte) string {
	sum := sha256.Sum256(specSource)
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".tamelangc.rezi")
}

// Load returns the cached table for key, and false if no entry exists.
func (s *Store) Load(key string) (*lrtables.PackedTable, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached table: %w", err)
	}

	t := &lrtables.PackedTable{}
	if _, err := rezi.DecBinary(data, t); err != nil {
		return nil, false, fmt.Errorf("decoding cached table: %w", err)
	}
	return t, true, nil
}

// Save writes t to the cache under key, creating Dir if necessary.
func (s *Store) Save(key string, t *lrtables.PackedTable) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	enc := rezi.EncBinary(t)
	if err := os.WriteFile(s.path(key), enc, 0o644); err != nil {
		return fmt.Errorf("writing cached table: %w", err)
	}
	return nil
}
