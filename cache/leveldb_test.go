//go:build leveldb
// +build leveldb

package cache

import "testing"

func TestLevelDBCache(t *testing.T) {
	testCache(t, BackendLevelDB)
}
