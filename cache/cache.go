// Package cache stores rendered full disc images keyed by everything that
// influences the result, so repeated runs with unchanged inputs skip the
// reprojection.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

var (
	NotFound = errors.New("not found")
)

const (
	entryPrefix = "entry/"
	imagePrefix = "png/"
)

// Store is a key-value backend.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

const (
	BackendBadger  = "badger"
	BackendLevelDB = "leveldb"
)

type Cache struct {
	dir   string
	store Store
}

// Open opens or creates the cache in dir.
func Open(dir, backend string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating cache dir")
	}
	var store Store
	var err error
	switch backend {
	case BackendBadger, "":
		store, err = openBadger(dir)
	case BackendLevelDB:
		store, err = openLevelDB(dir)
	default:
		return nil, errors.Errorf("unknown cache backend %q", backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s cache in %s", backend, dir)
	}
	return &Cache{dir: dir, store: store}, nil
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) Close() error {
	return c.store.Close()
}

// Key identifies the rendering described by e. Created and Size are not
// part of the key.
func Key(e *Entry) (string, error) {
	k := *e
	k.Created = 0
	k.Size = 0
	data, err := proto.Marshal(&k)
	if err != nil {
		return "", errors.Wrap(err, "marshal cache key")
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the PNG data of the rendering described by e, or NotFound.
func (c *Cache) Get(e *Entry) ([]byte, error) {
	key, err := Key(e)
	if err != nil {
		return nil, err
	}
	data, err := c.store.Get([]byte(imagePrefix + key))
	if err != nil {
		return nil, err
	}
	if e.Size != 0 && int64(len(data)) != e.Size {
		return nil, NotFound
	}
	return data, nil
}

func (c *Cache) Put(e *Entry, png []byte) error {
	key, err := Key(e)
	if err != nil {
		return err
	}
	e.Size = int64(len(png))
	meta, err := proto.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal cache entry")
	}
	if err := c.store.Put([]byte(imagePrefix+key), png); err != nil {
		return errors.Wrap(err, "storing image")
	}
	if err := c.store.Put([]byte(entryPrefix+key), meta); err != nil {
		return errors.Wrap(err, "storing cache entry")
	}
	return nil
}

// List returns all entries, oldest first.
func (c *Cache) List() ([]*Entry, error) {
	entries := []*Entry{}
	err := c.store.Iterate([]byte(entryPrefix), func(key, value []byte) error {
		e := &Entry{}
		if err := proto.Unmarshal(value, e); err != nil {
			return errors.Wrapf(err, "unmarshal cache entry %s", key)
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Created < entries[j].Created })
	return entries, nil
}

// Clear removes all entries and images. It returns the number of removed
// entries.
func (c *Cache) Clear() (int, error) {
	keys := [][]byte{}
	collect := func(key, value []byte) error {
		keys = append(keys, key)
		return nil
	}
	if err := c.store.Iterate([]byte(entryPrefix), collect); err != nil {
		return 0, err
	}
	n := len(keys)
	if err := c.store.Iterate([]byte(imagePrefix), collect); err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := c.store.Delete(k); err != nil {
			return 0, errors.Wrapf(err, "deleting %s", k)
		}
	}
	return n, nil
}
