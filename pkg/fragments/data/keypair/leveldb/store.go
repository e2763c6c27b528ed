package leveldb

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
)

var prefixKeypair = []byte("K:") // K:<base58 address> -> private key

type Store struct {
	mu sync.Mutex
	db *leveldb.DB
}

// New opens, or creates, a leveldb keypair.Store at path. Keys survive
// restarts, unlike the memory store.
func New(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		NoSync: false,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error opening leveldb")
	}

	return &Store{db: db}, nil
}

// Put implements keypair.Store.Put
func (s *Store) Put(_ context.Context, address ed25519.PublicKey, key ed25519.PrivateKey) error {
	if err := keypair.Validate(address, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbKey := makeKeypairKey(address)
	exists, err := s.db.Has(dbKey, nil)
	if err != nil {
		return errors.Wrap(err, "error checking keypair existence")
	}
	if exists {
		return keypair.ErrKeypairExists
	}

	if err := s.db.Put(dbKey, key, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "error writing keypair")
	}
	return nil
}

// Get implements keypair.Store.Get
func (s *Store) Get(_ context.Context, address ed25519.PublicKey) (ed25519.PrivateKey, error) {
	value, err := s.db.Get(makeKeypairKey(address), nil)
	if err == leveldb.ErrNotFound {
		return nil, keypair.ErrKeypairNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error reading keypair")
	}

	if len(value) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("stored keypair has invalid length %d", len(value))
	}
	return ed25519.PrivateKey(value), nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(util.BytesPrefix(prefixKeypair), nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}

	return s.db.Write(batch, nil)
}

func makeKeypairKey(address ed25519.PublicKey) []byte {
	return append(append([]byte(nil), prefixKeypair...), base58.Encode(address)...)
}
