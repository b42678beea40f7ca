// Package sidestore persists the few selections that survive a restart:
// the cached nick and the focused conversation. Backed by bbolt with
// msgpack-encoded records.
package sidestore

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketPrefs = []byte("prefs")

const (
	keyNick          = "nick"
	keyActiveChannel = "activeChannel"
	keyActiveUser    = "activeUser"
)

type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open side store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrefs)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create prefs bucket: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPrefs).Get([]byte(key))
		if data == nil {
			return nil
		}
		var p Pref
		if err := p.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("corrupt pref %s: %w", key, err)
		}
		value = p.Value
		return nil
	})
	return value, err
}

// putIn writes one key inside an open transaction.
func (s *Store) putIn(tx *bbolt.Tx, key, value string) error {
	p := Pref{Value: value, UpdatedAt: s.now().Unix()}
	data, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return tx.Bucket(bucketPrefs).Put([]byte(key), data)
}

func (s *Store) Nick() (string, error)          { return s.get(keyNick) }
func (s *Store) ActiveChannel() (string, error) { return s.get(keyActiveChannel) }
func (s *Store) ActiveUser() (string, error)    { return s.get(keyActiveUser) }

func (s *Store) SetNick(nick string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.putIn(tx, keyNick, nick)
	})
}

// SetActiveChannel stores the channel focus and removes any user focus in
// the same transaction, so the two keys can never both be set.
func (s *Store) SetActiveChannel(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketPrefs).Delete([]byte(keyActiveUser)); err != nil {
			return err
		}
		return s.putIn(tx, keyActiveChannel, name)
	})
}

// SetActiveUser stores the user focus and removes any channel focus in the
// same transaction.
func (s *Store) SetActiveUser(handle string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketPrefs).Delete([]byte(keyActiveChannel)); err != nil {
			return err
		}
		return s.putIn(tx, keyActiveUser, handle)
	})
}

// ClearFocus removes both focus keys.
func (s *Store) ClearFocus() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		if err := b.Delete([]byte(keyActiveChannel)); err != nil {
			return err
		}
		return b.Delete([]byte(keyActiveUser))
	})
}

// ClearAll wipes every persisted key. Used on sign-out.
func (s *Store) ClearAll() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketPrefs); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketPrefs)
		return err
	})
}
