//go:build leveldb
// +build leveldb

package cache

import (
	"bytes"

	"github.com/jmhodges/levigo"
)

type LevelDB struct {
	db *levigo.DB
	wo *levigo.WriteOptions
	ro *levigo.ReadOptions
}

func openLevelDB(dir string) (*LevelDB, error) {
	opts := levigo.NewOptions()
	defer opts.Close()
	opts.SetCreateIfMissing(true)
	opts.SetCache(levigo.NewLRUCache(1024 * 1024 * 16))
	db, err := levigo.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return &LevelDB{
		db: db,
		wo: levigo.NewWriteOptions(),
		ro: levigo.NewReadOptions(),
	}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	data, err := l.db.Get(l.ro, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, NotFound
	}
	return data, nil
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(l.wo, key, value)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(l.wo, key)
}

func (l *LevelDB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := l.db.NewIterator(l.ro)
	defer it.Close()
	for it.Seek(prefix); it.Valid() && bytes.HasPrefix(it.Key(), prefix); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.GetError()
}

func (l *LevelDB) Close() error {
	l.ro.Close()
	l.wo.Close()
	l.db.Close()
	return nil
}
