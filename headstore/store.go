// Package headstore persists the node's HeadState so a restart resumes
// from the last durable point instead of falling back to Idle, grounded on
// the teacher's store.KVStore (a tm-db-backed key-value layer written
// around a single logical table).
package headstore

import (
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmdb "github.com/tendermint/tm-db"
	"github.com/tendermint/tm-db/goleveldb"

	"headnode/head"
)

// headStateKey is the single row this store maintains: the head core keeps
// no history beyond the in-memory predecessor chain carried by HeadState
// itself (§3.2), so there is nothing else to persist per-key.
var headStateKey = []byte("head-state")

// Store persists and recovers a single Head's state across restarts.
type Store struct {
	db     tmdb.DB
	logger log.Logger
}

// NewStore opens (creating if absent) a goleveldb database at dir, the
// teacher's NewKVStore pattern with the table scheme dropped (this Head has
// exactly one row to keep, not an account ledger).
func NewStore(name, dir string, logger log.Logger) (*Store, error) {
	db, err := goleveldb.NewDB(name, dir)
	if err != nil {
		return nil, errors.WithMessage(err, "opening head store")
	}
	return NewStoreWithDB(db, logger), nil
}

func NewStoreWithDB(db tmdb.DB, logger log.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Save durably records the current HeadState. Called by the node shell
// after every transition that produced a non-trivial outcome (§5), so a
// crash loses at most the in-flight event being processed.
func (s *Store) Save(state head.HeadState) error {
	bz, err := tmjson.Marshal(encodeState(state))
	if err != nil {
		return errors.WithMessage(err, "encoding head state")
	}
	return s.db.Set(headStateKey, bz)
}

// Load recovers the last saved HeadState, or a fresh Idle state (with a nil
// chain-state tag) if nothing has ever been saved.
func (s *Store) Load() (head.HeadState, error) {
	bz, err := s.db.Get(headStateKey)
	if err != nil {
		return head.HeadState{}, errors.WithMessage(err, "reading head state")
	}
	if bz == nil {
		return head.NewIdle(nil), nil
	}
	var w wireState
	if err := tmjson.Unmarshal(bz, &w); err != nil {
		return head.HeadState{}, errors.WithMessage(err, "decoding head state")
	}
	return decodeState(&w), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
