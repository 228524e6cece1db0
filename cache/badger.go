package cache

import (
	"github.com/dgraph-io/badger"
)

type BadgerDB struct {
	*badger.DB
}

func openBadger(dir string) (*BadgerDB, error) {
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerDB{db}, nil
}

func (db *BadgerDB) Get(key []byte) ([]byte, error) {
	var data []byte
	err := db.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return NotFound
		} else if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (db *BadgerDB) Put(key, value []byte) error {
	return db.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (db *BadgerDB) Delete(key []byte) error {
	return db.DB.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (db *BadgerDB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return db.DB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *BadgerDB) Close() error {
	return db.DB.Close()
}
