package headcrypto

import (
	"fmt"
	"io/ioutil"

	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/libs/tempfile"
)

// FileKey is a signing keypair persisted to disk as JSON, the head-protocol
// counterpart of the teacher's FilePVKey: a participant's signing identity
// should survive a restart the same way a validator's does.
type FileKey struct {
	PubKey  PubKey  `json:"pub_key"`
	PrivKey PrivKey `json:"priv_key"`

	filePath string
}

// NewFileKey wraps an existing PrivKey for persistence at path.
func NewFileKey(priv PrivKey, path string) *FileKey {
	pub, _ := priv.PubKey().(PubKey)
	return &FileKey{
		PubKey:   pub,
		PrivKey:  priv,
		filePath: path,
	}
}

// GenFileKey draws a fresh keypair and sets filePath, but does not save it.
func GenFileKey(path string) (*FileKey, error) {
	priv, err := GenPrivKey()
	if err != nil {
		return nil, err
	}
	return NewFileKey(priv, path), nil
}

// Save persists the key to its filePath.
func (k *FileKey) Save() error {
	if k.filePath == "" {
		return fmt.Errorf("headcrypto: cannot save key, filePath not set")
	}
	bz, err := tmjson.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return tempfile.WriteFileAtomic(k.filePath, bz, 0600)
}

// LoadFileKey reads a FileKey previously written by Save.
func LoadFileKey(path string) (*FileKey, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var k FileKey
	if err := tmjson.Unmarshal(bz, &k); err != nil {
		return nil, fmt.Errorf("headcrypto: reading key from %v: %w", path, err)
	}
	// overwrite pubkey for convenience, mirroring the teacher's loadFilePV
	if pub, ok := k.PrivKey.PubKey().(PubKey); ok {
		k.PubKey = pub
	}
	k.filePath = path
	return &k, nil
}

// LoadOrGenFileKey loads the key at path, generating and saving a fresh one
// if none exists yet -- the pattern cmd's start and show-key commands drive.
func LoadOrGenFileKey(path string) (*FileKey, error) {
	if tmos.FileExists(path) {
		return LoadFileKey(path)
	}
	k, err := GenFileKey(path)
	if err != nil {
		return nil, err
	}
	if err := k.Save(); err != nil {
		return nil, err
	}
	return k, nil
}
