//go:build !leveldb
// +build !leveldb

package cache

import "github.com/pkg/errors"

func openLevelDB(dir string) (Store, error) {
	return nil, errors.New("built without leveldb support, rebuild with -tags leveldb")
}
