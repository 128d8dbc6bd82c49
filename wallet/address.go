// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"

	"github.com/miden-para/miden-para-go/commitment"
	"github.com/miden-para/miden-para-go/rpo"
)

// Address is the uncompressed public key of a Para wallet.
type Address commitment.PublicKey

var _ wallet.Address = (*Address)(nil)

// ParseAddress parses a hex encoded uncompressed key and checks that it is a
// point on secp256k1.
func ParseAddress(s string) (*Address, error) {
	pk, err := commitment.ParsePublicKeyHex(s)
	if err != nil {
		return nil, err
	}
	a := new(Address)
	if err := a.UnmarshalBinary(pk[:]); err != nil {
		return nil, err
	}
	return a, nil
}

func (a Address) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), a[:]...), nil
}

func (a *Address) UnmarshalBinary(data []byte) error {
	pk, err := commitment.ParsePublicKey(data)
	if err != nil {
		return err
	}
	if _, err := btcec.ParsePubKey(data); err != nil {
		return errors.Wrap(err, "invalid secp256k1 point")
	}
	*a = Address(pk)
	return nil
}

func (a Address) String() string {
	return commitment.PublicKey(a).String()
}

func (a Address) Equal(b wallet.Address) bool {
	return bytes.Equal(a[:], (*b.(*Address))[:])
}

func (a Address) Cmp(b wallet.Address) int {
	return bytes.Compare(a[:], (*b.(*Address))[:])
}

// Commitment derives the Miden public key commitment of the address.
func (a Address) Commitment() (rpo.Digest, error) {
	return commitment.Derive(commitment.PublicKey(a), commitment.Default())
}

// AsAddr casts a go-perun address into an Address.
func AsAddr(a wallet.Address) *Address {
	return a.(*Address)
}
