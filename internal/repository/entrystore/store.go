// Package entrystore holds the persistent tier of the prompt cache.
// Backends store opaque payload bytes together with the moment they were
// written; freshness decisions belong to the caller.
package entrystore

import "time"

type Entry struct {
	Key      string
	Payload  []byte
	StoredAt time.Time
}

type Store interface {
	Get(key string) (Entry, bool, error)
	Put(e Entry) error
	Delete(key string) error
	Clear() error
}
