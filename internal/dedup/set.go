package dedup

import (
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DigestSet remembers the digests seen during one run.
type DigestSet interface {
	// Add inserts digest and reports whether it was absent.
	Add(digest string) (bool, error)
	Close() error
}

type MemorySet struct {
	seen map[string]struct{}
}

func NewMemorySet() *MemorySet {
	return &MemorySet{seen: map[string]struct{}{}}
}

func (set *MemorySet) Add(digest string) (bool, error) {
	if _, exists := set.seen[digest]; exists {
		return false, nil
	}
	set.seen[digest] = struct{}{}
	return true, nil
}

// Close forgets every digest. The set stays usable afterwards.
func (set *MemorySet) Close() error {
	clear(set.seen)
	return nil
}

var digestsBucket = []byte("digests")

// BoltSet keeps digests in a temporary bbolt file so very large JSONL
// inputs do not hold every digest in memory. The file is removed on Close.
type BoltSet struct {
	db   *bolt.DB
	path string
}

func NewBoltSet(directory string) (*BoltSet, error) {
	tempFile, createError := os.CreateTemp(directory, "datasieve-digests-*.db")
	if createError != nil {
		return nil, fmt.Errorf("create digest index: %w", createError)
	}
	path := tempFile.Name()
	_ = tempFile.Close()

	db, openError := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second, NoSync: true})
	if openError != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("open digest index: %w", openError)
	}
	if updateError := db.Update(func(tx *bolt.Tx) error {
		_, bucketError := tx.CreateBucketIfNotExists(digestsBucket)
		return bucketError
	}); updateError != nil {
		_ = db.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("create digest bucket: %w", updateError)
	}
	return &BoltSet{db: db, path: path}, nil
}

func (set *BoltSet) Add(digest string) (bool, error) {
	added := false
	err := set.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(digestsBucket)
		key := []byte(digest)
		if bucket.Get(key) != nil {
			return nil
		}
		added = true
		return bucket.Put(key, []byte{1})
	})
	if err != nil {
		return false, fmt.Errorf("record digest: %w", err)
	}
	return added, nil
}

func (set *BoltSet) Path() string {
	return set.path
}

func (set *BoltSet) Close() error {
	if set == nil || set.db == nil {
		return nil
	}
	closeError := set.db.Close()
	removeError := os.Remove(set.path)
	if closeError != nil {
		return fmt.Errorf("close digest index: %w", closeError)
	}
	if removeError != nil && !os.IsNotExist(removeError) {
		return fmt.Errorf("remove digest index: %w", removeError)
	}
	return nil
}
