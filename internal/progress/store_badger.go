package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStore keeps saves in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens the database directory at dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	if dir == "" {
		return nil, errors.New("empty badger directory")
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (b *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerStore) Close() error { return b.db.Close() }
