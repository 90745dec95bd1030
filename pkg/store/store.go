// Package store keeps the command history of nush in a bbolt database.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.nush.dev/pkg/logutil"
	"src.nush.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const bucketCmd = "cmd"

// Functions that initialize the database, keyed by description.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend of nush.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at the given path, creating it if needed.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bbolt database.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
