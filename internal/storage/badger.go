package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore implements ObjectStore on an embedded Badger database.
// It backs local development and test runs when no Azure connection
// string is configured. Objects are keyed "container/name".
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is too chatty for a pipeline log
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	log.Printf("[INFO] local blob store opened: %s", path)
	return &BadgerStore{db: db}, nil
}

func objectKey(container, name string) []byte {
	return []byte(container + "/" + name)
}

func (s *BadgerStore) Exists(_ context.Context, container, name string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(objectKey(container, name))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger get %s/%s: %w", container, name, err)
	}
	return true, nil
}

func (s *BadgerStore) Download(_ context.Context, container, name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(objectKey(container, name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger download %s/%s: %w", container, name, err)
	}
	return data, nil
}

func (s *BadgerStore) Upload(_ context.Context, container, name string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(objectKey(container, name), data)
	})
	if err != nil {
		return fmt.Errorf("badger upload %s/%s: %w", container, name, err)
	}
	log.Printf("[INFO] uploaded %s to container '%s'", name, container)
	return nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }
