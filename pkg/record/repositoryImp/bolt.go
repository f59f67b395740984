package repositoryImp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"farmdash/entities"
	"farmdash/pkg/record/repository"
)

// boltRepo opens the file for each operation and closes it when the
// transaction completes. mu keeps two opens in this process from
// contending for the file lock.
type boltRepo struct {
	path string
	mu   sync.Mutex
}

func NewBolt(path string) (repository.RecordRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	r := &boltRepo{path: path}
	// probe once so an unusable path disables persistence up front
	if err := r.with(false, func(*bolt.Tx) error { return nil }); err != nil {
		return nil, err
	}
	return r, nil
}

func bucketName(browserID string) []byte { return []byte("farm:" + browserID) }

func recordKey() []byte { return []byte(strconv.FormatUint(uint64(entities.RecordID), 10)) }

func (r *boltRepo) with(write bool, fn func(*bolt.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, err := bolt.Open(r.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open bolt: %w", err)
	}
	defer func() { _ = db.Close() }()
	if write {
		return db.Update(fn)
	}
	return db.View(fn)
}

func (r *boltRepo) Save(ctx context.Context, browserID string, rec entities.FarmRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := rec.Clone()
	row.ID = entities.RecordID
	row.BrowserID = browserID
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now()
	}
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.with(true, func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bucketName(browserID))
		if err != nil {
			return err
		}
		return bk.Put(recordKey(), b)
	})
}

func (r *boltRepo) Load(ctx context.Context, browserID string) (*entities.FarmRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entities.FarmRecord
	err := r.with(false, func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketName(browserID))
		if bk == nil {
			return repository.ErrNotFound
		}
		v := bk.Get(recordKey())
		if v == nil {
			return repository.ErrNotFound
		}
		var rec entities.FarmRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		rec.BrowserID = browserID
		out = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *boltRepo) Close() error { return nil }
