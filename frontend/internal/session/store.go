package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	currentKey    = []byte("current")
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("session: not logged in")

// Session is what the client keeps after login or registration.
type Session struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store persists the current session in a local bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("session: create dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the current session.
func (s *Store) Save(sess Session) error {
	if sess.Token == "" {
		return errors.New("session: empty token")
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(currentKey, data)
	})
}

// Current returns the stored session or ErrNoSession.
func (s *Store) Current() (*Session, error) {
	var sess *Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(currentKey)
		if data == nil {
			return ErrNoSession
		}
		sess = &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("session: decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Token returns the stored token, "" when logged out.
func (s *Store) Token() string {
	sess, err := s.Current()
	if err != nil {
		return ""
	}
	return sess.Token
}

// Clear forgets the session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(currentKey)
	})
}
