// Package file implements a credential store over an append-oriented text
// file, one record per line:
//
//	username,digest,salt
//
// The digest itself may contain the delimiter (argon2 parameter lists do),
// so records are parsed from both ends: the username runs to the first
// delimiter, the salt from the last one. Usernames containing the delimiter
// are rejected upstream by validation.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dverne/gatekeeper/internal/model"
)

const delimiter = ","

var _ model.UserStore = (*Store)(nil)

// Store is a durable UserStore backed by a flat file. All records are
// indexed in memory; the file is the source of truth across restarts.
// Record IDs are assigned per process and are not persisted.
type Store struct {
	mu    sync.RWMutex
	file  *os.File
	index map[string]model.User
}

// NewStore opens (or creates) the store file at path and loads its records.
// Malformed lines, such as a trailing record cut short by a crash, are
// skipped rather than treated as fatal.
func NewStore(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}

	index, err := loadIndex(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Store{file: f, index: index}, nil
}

// Create persists a new user. The duplicate check, the append and the index
// update happen under one lock, so concurrent registrations of the same
// username cannot both succeed. A failed append leaves the index unchanged.
func (s *Store) Create(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[user.Username]; exists {
		return model.User{}, model.ErrUsernameTaken
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if _, err := fmt.Fprintf(s.file, "%s%s%s%s%s\n", user.Username, delimiter, user.PasswordDigest, delimiter, user.Salt); err != nil {
		return model.User{}, fmt.Errorf("failed to append user record: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return model.User{}, fmt.Errorf("failed to sync store file: %w", err)
	}

	s.index[user.Username] = user
	return user, nil
}

// GetByUsername returns the stored record, or model.ErrNotFound.
func (s *Store) GetByUsername(ctx context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.index[username]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func loadIndex(f *os.File) (map[string]model.User, error) {
	index := make(map[string]model.User)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		user, ok := parseRecord(scanner.Text())
		if !ok {
			continue
		}
		// Last record wins on duplicates; Create never produces them, but
		// a hand-edited file should not crash the store.
		index[user.Username] = user
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	return index, nil
}

func parseRecord(line string) (model.User, bool) {
	first := strings.Index(line, delimiter)
	last := strings.LastIndex(line, delimiter)
	if first <= 0 || last <= first {
		return model.User{}, false
	}

	username := line[:first]
	digest := line[first+1 : last]
	salt := line[last+1:]
	if digest == "" || salt == "" {
		return model.User{}, false
	}

	return model.User{
		ID:             uuid.New(),
		Username:       username,
		PasswordDigest: digest,
		Salt:           salt,
	}, true
}
