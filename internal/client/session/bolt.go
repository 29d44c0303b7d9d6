package session

import (
	"fmt"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// Keys stored in the session bucket.
var (
	keyToken    = []byte("token")
	keyUserID   = []byte("userId")
	keyUsername = []byte("username")
	keyNome     = []byte("nome")
	keyIsAdmin  = []byte("isAdmin")

	allKeys = [][]byte{keyToken, keyUserID, keyUsername, keyNome, keyIsAdmin}
)

// BoltStore keeps the session in a bbolt file, one key per field.
type BoltStore struct {
	db *bbolt.DB
}

// lockTimeout bounds the wait for another process holding the file.
const lockTimeout = 2 * time.Second

// OpenBoltStore opens (or creates) the session file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the session file.
func (b *BoltStore) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Load reads the stored fields. Missing keys yield zero values.
func (b *BoltStore) Load() (Data, error) {
	var data Data
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data.Token = string(bucket.Get(keyToken))
		data.Username = string(bucket.Get(keyUsername))
		data.Nome = string(bucket.Get(keyNome))
		data.IsAdmin = string(bucket.Get(keyIsAdmin)) == "true"

		if raw := bucket.Get(keyUserID); raw != nil {
			id, err := strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt userId in session: %w", err)
			}
			data.UserID = id
		}
		return nil
	})
	return data, err
}

// Save writes every field in one transaction.
func (b *BoltStore) Save(data Data) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		values := map[string]string{
			string(keyToken):    data.Token,
			string(keyUserID):   strconv.FormatInt(data.UserID, 10),
			string(keyUsername): data.Username,
			string(keyNome):     data.Nome,
			string(keyIsAdmin):  strconv.FormatBool(data.IsAdmin),
		}
		for k, v := range values {
			if err := bucket.Put([]byte(k), []byte(v)); err != nil {
				return fmt.Errorf("failed to save %s: %w", k, err)
			}
		}
		return nil
	})
}

// Clear deletes every session key.
func (b *BoltStore) Clear() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return nil
		}
		for _, k := range allKeys {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete %s: %w", k, err)
			}
		}
		return nil
	})
}
