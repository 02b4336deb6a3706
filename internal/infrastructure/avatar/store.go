package avatar

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound signals that no avatar exists for the given user id.
// Any other failure from the store is an I/O error and keeps its cause
// in the chain.
var ErrNotFound = errors.New("avatar not found")

// Store is a flat-directory blob store for avatar images. Files are named
// <md5(userID)>.jpg under a single root; there is no sharding and no
// companion metadata. Get returns base64 text rather than raw bytes;
// that is the wire contract existing clients depend on.
//
// Operations are single filesystem actions with no locking. Two puts for
// the same id race last-write-wins; a get racing a delete can lose and
// report ErrNotFound. Both windows are accepted.
type Store struct {
	root string
}

// NewStore resolves root to an absolute path once, so later working
// directory changes cannot move the store, and creates the directory
// if it does not exist.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve avatar root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the resolved root directory.
func (s *Store) Root() string { return s.root }

// Key derives the stable filename stem for a user id. Same input always
// yields the same 32-char hex digest; it doubles as the retrieval key,
// so the scheme must never change.
func Key(userID string) string {
	sum := md5.Sum([]byte(userID))
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.root, Key(userID)+".jpg")
}

// Exists reports whether an avatar file is present for userID.
func (s *Store) Exists(userID string) bool {
	_, err := os.Stat(s.path(userID))
	return err == nil
}

// Get reads the stored image and returns it base64-encoded. Absence is
// ErrNotFound; anything else is surfaced as a wrapped I/O error.
func (s *Store) Get(userID string) (string, error) {
	b, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read avatar: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Put writes or overwrites the avatar for userID. The image lands in a
// temp file first and is renamed into place, so a concurrent Get never
// observes partial content.
func (s *Store) Put(userID string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, "upload-*.jpg")
	if err != nil {
		return fmt.Errorf("create temp avatar: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close avatar: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(userID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename avatar: %w", err)
	}
	return nil
}

// Delete removes the avatar for userID. Deleting an absent avatar is
// ErrNotFound, distinct from a genuine I/O failure.
func (s *Store) Delete(userID string) error {
	if err := os.Remove(s.path(userID)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete avatar: %w", err)
	}
	return nil
}
