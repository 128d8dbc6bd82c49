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
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
	"perun.network/go-perun/wallet"

	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/signer"
)

// SigLen is the length of an r || s || v signature.
const SigLen = 65

// ErrInvalidSignature the signer returned something other than a 65 byte
// recoverable signature.
var ErrInvalidSignature = errors.New("invalid signature")

// Account is a Para wallet whose signatures are produced remotely. It signs
// messages for a perun off-chain identity.
type Account struct {
	addr   Address
	wallet para.Wallet
	signer signer.MessageSigner
}

var _ wallet.Account = (*Account)(nil)

// NewAccount wraps a Para wallet. The wallet must carry its public key.
func NewAccount(w para.Wallet, s signer.MessageSigner) (*Account, error) {
	addr, err := ParseAddress(w.PublicKey)
	if err != nil {
		return nil, errors.WithMessagef(err, "wallet %s", w.ID)
	}
	return &Account{addr: *addr, wallet: w, signer: s}, nil
}

func (a *Account) Address() wallet.Address {
	addr := a.addr
	return &addr
}

// Wallet returns the underlying Para wallet.
func (a *Account) Wallet() para.Wallet {
	return a.wallet
}

// SignData signs the keccak-256 hash of data with the Para wallet.
func (a *Account) SignData(data []byte) ([]byte, error) {
	return a.SignDataContext(context.TODO(), data)
}

// SignDataContext is SignData with a caller supplied context.
func (a *Account) SignDataContext(ctx context.Context, data []byte) ([]byte, error) {
	digest := keccak256(data)
	res, err := a.signer.SignMessage(ctx, a.wallet.ID, base64.StdEncoding.EncodeToString(digest))
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, signer.ErrSignatureDenied
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(res.Signature, "0x"))
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidSignature, err.Error())
	}
	if len(sig) != SigLen {
		return nil, errors.WithMessagef(ErrInvalidSignature, "length %d/%d", len(sig), SigLen)
	}
	return sig, nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
