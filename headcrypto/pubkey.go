// Package headcrypto implements the headtypes.Crypto capability with a real
// BLS signature scheme (go.dedis.ch/kyber/v3, pairing-friendly curve
// bn256/BN254), and provides PubKey/PrivKey types satisfying tendermint's
// crypto.PubKey/crypto.PrivKey interfaces so a Party's VerificationKey can be
// constructed the same way the teacher's ed25519/threshold keys are.
package headcrypto

import (
	"bytes"

	tmcrypto "github.com/tendermint/tendermint/crypto"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing/bn256"
	"go.dedis.ch/kyber/v3/sign/bls"
)

// Registering these with tmjson lets PubKey/PrivKey round-trip wherever
// they sit behind a crypto.PubKey/crypto.PrivKey interface field (Party,
// FilePVKey-style key files), the same way the teacher's ed25519 package
// registers itself for polymorphic JSON.
func init() {
	tmjson.RegisterType(PubKey{}, "head/headcrypto.PubKey")
	tmjson.RegisterType(PrivKey{}, "head/headcrypto.PrivKey")
}

// KeyType identifies this scheme to anything that switches on
// tmcrypto.PubKey/PrivKey.Type(), mirroring how the teacher's FilePVKey JSON
// round-trips distinguish key kinds.
const KeyType = "bls12-bn254"

var suite = bn256.NewSuite()

// PubKey is a BLS public key (a marshaled G2 point) satisfying tendermint's
// crypto.PubKey interface. It is a named byte slice, not a struct wrapping
// one, so it round-trips through tmjson/encoding-json the same way
// ed25519.PubKey does -- a struct with only unexported fields would
// marshal to "{}" and lose the key entirely.
type PubKey []byte

// PrivKey is a BLS private key (a marshaled scalar) satisfying tendermint's
// crypto.PrivKey interface.
type PrivKey []byte

var (
	_ tmcrypto.PubKey  = PubKey{}
	_ tmcrypto.PrivKey = PrivKey{}
)

// GenPrivKey draws a fresh keypair from the suite's randomness source, the
// BLS counterpart of ed25519.GenPrivKey in the teacher's privval package.
func GenPrivKey() (PrivKey, error) {
	priv, _ := bls.NewKeyPair(suite, suite.RandomStream())
	bz, err := priv.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return PrivKey(bz), nil
}

func (k PrivKey) scalar() (kyber.Scalar, error) {
	s := suite.G1().Scalar()
	if err := s.UnmarshalBinary(k); err != nil {
		return nil, err
	}
	return s, nil
}

func (k PrivKey) Bytes() []byte {
	return append([]byte{}, k...)
}

// Sign produces a raw BLS signature over msg. The head core never calls this
// directly -- it goes through the Signer capability below, which also
// canonicalizes the Snapshot being signed.
func (k PrivKey) Sign(msg []byte) ([]byte, error) {
	priv, err := k.scalar()
	if err != nil {
		return nil, err
	}
	sig, err := bls.Sign(suite, priv, msg)
	if err != nil {
		return nil, err
	}
	return sig, nil
}

func (k PrivKey) PubKey() tmcrypto.PubKey {
	priv, err := k.scalar()
	if err != nil {
		return PubKey{}
	}
	pub := suite.G2().Point().Mul(priv, nil)
	bz, err := pub.MarshalBinary()
	if err != nil {
		return PubKey{}
	}
	return PubKey(bz)
}

func (k PrivKey) Equals(other tmcrypto.PrivKey) bool {
	o, ok := other.(PrivKey)
	return ok && bytes.Equal(k, o)
}

func (k PrivKey) Type() string { return KeyType }

func (k PubKey) point() (kyber.Point, error) {
	p := suite.G2().Point()
	if err := p.UnmarshalBinary(k); err != nil {
		return nil, err
	}
	return p, nil
}

func (k PubKey) Address() tmcrypto.Address {
	return tmcrypto.Address(tmhash.SumTruncated(k))
}

func (k PubKey) Bytes() []byte {
	return append([]byte{}, k...)
}

func (k PubKey) VerifySignature(msg []byte, sig []byte) bool {
	pub, err := k.point()
	if err != nil {
		return false
	}
	return bls.Verify(suite, pub, msg, sig) == nil
}

func (k PubKey) Equals(other tmcrypto.PubKey) bool {
	o, ok := other.(PubKey)
	return ok && bytes.Equal(k, o)
}

func (k PubKey) Type() string { return KeyType }
