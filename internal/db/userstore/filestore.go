package userstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps all records in one JSON object keyed by user id.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("creating user data file: %w", err)
		}
	}
	return s, nil
}

func (s *FileStore) Load(_ context.Context, userID int64) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.readAll()[strconv.FormatInt(userID, 10)]
	if !ok {
		return Record{}
	}
	return decodeRecord(userID, raw)
}

func (s *FileStore) Save(_ context.Context, userID int64, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding user record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.readAll()
	users[strconv.FormatInt(userID, 10)] = data

	return s.writeAll(users)
}

func (s *FileStore) ListNotifiable(_ context.Context) ([]StoredUser, error) {
	s.mu.Lock()
	users := s.readAll()
	s.mu.Unlock()

	var result []StoredUser
	for key, raw := range users {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		record := decodeRecord(userID, raw)
		if record.Notifications.Enabled {
			result = append(result, StoredUser{UserID: userID, Record: record})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}

// readAll returns an empty map for a missing, empty or corrupted file.
func (s *FileStore) readAll() map[string]json.RawMessage {
	users := map[string]json.RawMessage{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to read user data file")
		}
		return users
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return users
	}
	if err := json.Unmarshal(data, &users); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("user data file is corrupted, starting from scratch")
		return map[string]json.RawMessage{}
	}

	return users
}

func (s *FileStore) writeAll(users map[string]json.RawMessage) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return fmt.Errorf("encoding user data: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".userdata-*")
	if err != nil {
		return fmt.Errorf("creating temp user data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing user data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing user data: %w", err)
	}

	return os.Rename(tmp.Name(), s.path)
}
