// Copyright 2023 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wallet

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"
)

const compactHeader = 27

type Backend struct{}

var _ wallet.Backend = Backend{}

func init() {
	wallet.SetBackend(Backend{})
}

func (Backend) NewAddress() wallet.Address {
	return new(Address)
}

func (Backend) DecodeSig(r io.Reader) (wallet.Sig, error) {
	sig := make([]byte, SigLen)
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, err
	}
	return wallet.Sig(sig), nil
}

// VerifySignature recovers the signing key from an r || s || v signature over
// keccak256(msg) and compares it to the address. v may be 0/1 or 27/28.
func (Backend) VerifySignature(
	msg []byte,
	sign wallet.Sig,
	a wallet.Address,
) (bool, error) {
	addr, ok := a.(*Address)
	if !ok {
		return false, errors.Errorf("unexpected address type %T", a)
	}
	pub, err := RecoverPublicKey(keccak256(msg), sign)
	if err != nil {
		return false, err
	}
	return bytes.Equal(pub, addr[:]), nil
}

// RecoverPublicKey returns the uncompressed key that produced an r || s || v
// signature over digest.
func RecoverPublicKey(digest, sig []byte) ([]byte, error) {
	if len(sig) != SigLen {
		return nil, errors.WithMessagef(ErrInvalidSignature, "length %d/%d", len(sig), SigLen)
	}
	v := sig[64]
	if v >= compactHeader {
		v -= compactHeader
	}
	if v > 1 {
		return nil, errors.WithMessagef(ErrInvalidSignature, "recovery id %d", sig[64])
	}

	compact := make([]byte, SigLen)
	compact[0] = compactHeader + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidSignature, err.Error())
	}
	return pub.SerializeUncompressed(), nil
}
