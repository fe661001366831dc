package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
)

// PublicKeyLength is the size of a compressed secp256k1 point
const PublicKeyLength = 33

// PublicKey is a compressed secp256k1 public key
type PublicKey []byte

func HexToPublicKey(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	key := PublicKey(b)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}

// Validate checks the key is a compressed point on the curve
func (k PublicKey) Validate() error {
	if len(k) != PublicKeyLength {
		return fmt.Errorf("public key must be %d bytes, got %d", PublicKeyLength, len(k))
	}
	if _, err := btcec.ParsePubKey(k, btcec.S256()); err != nil {
		return fmt.Errorf("invalid public key %s: %s", k, err)
	}
	return nil
}

func (k PublicKey) Compare(other PublicKey) int {
	return bytes.Compare(k, other)
}

func (k PublicKey) String() string {
	return hex.EncodeToString(k)
}
