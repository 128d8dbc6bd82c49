// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/miden-para/miden-para-go/para"
)

// ErrUnknownWallet the LocalSigner holds no key for the wallet id.
var ErrUnknownWallet = errors.New("no such wallet")

// LocalSigner is an in-memory stand-in for Para's remote signer. Keys are
// derived from a random seed and a nonce, so a signer created from the same
// seed produces the same wallets in the same order. It is meant for
// development and tests; keys never leave the process.
type LocalSigner struct {
	mutex sync.Mutex

	seed      [24]byte                     // the signer's random seed.
	latestAcc uint64                       // the next wallet's nonce.
	keys      map[string]*btcec.PrivateKey // wallet id -> key.
	wallets   map[string]para.Wallet       // wallet id -> wallet.
}

var bo = binary.LittleEndian

// NewLocalSigner creates a signer seeded from gen.
func NewLocalSigner(gen io.Reader) (*LocalSigner, error) {
	s := LocalSigner{
		keys:    make(map[string]*btcec.PrivateKey),
		wallets: make(map[string]para.Wallet),
	}
	if _, err := io.ReadFull(gen, s.seed[:]); err != nil {
		return nil, fmt.Errorf("error reading random seed: %v", err)
	}
	return &s, nil
}

func (s *LocalSigner) genKey(id uint64) *btcec.PrivateKey {
	seed := new(bytes.Buffer)
	seed.Write(s.seed[:])
	if err := binary.Write(seed, bo, id); err != nil {
		panic(fmt.Sprintf("error writing id to seed buffer: %v", err))
	}
	sk, _ := btcec.PrivKeyFromBytes(keccak256(seed.Bytes()))
	return sk
}

// NewWallet derives the next key and returns it as an EVM Para wallet.
func (s *LocalSigner) NewWallet() para.Wallet {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sk := s.genKey(s.latestAcc)
	s.latestAcc++

	pub := sk.PubKey().SerializeUncompressed()
	w := para.Wallet{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, pub).String(),
		Type:      para.WalletTypeEVM,
		PublicKey: "0x" + hex.EncodeToString(pub),
		Address:   "0x" + hex.EncodeToString(keccak256(pub[1:])[12:]),
		Scheme:    "DKLS",
	}
	s.keys[w.ID] = sk
	s.wallets[w.ID] = w
	return w
}

// Wallets returns all wallets created so far.
func (s *LocalSigner) Wallets() []para.Wallet {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ws := make([]para.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		ws = append(ws, w)
	}
	return ws
}

// SignMessage signs the decoded message, which must be a 32 byte digest, and
// returns the hex encoded r || s || v signature with v in {0, 1}.
func (s *LocalSigner) SignMessage(ctx context.Context, walletID, messageBase64 string) (*para.SignatureResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg, err := base64.StdEncoding.DecodeString(messageBase64)
	if err != nil {
		return nil, errors.Wrap(err, "decoding message")
	}
	if len(msg) != 32 {
		return nil, errors.Errorf("message must be a 32 byte digest, got %d bytes", len(msg))
	}

	s.mutex.Lock()
	sk, ok := s.keys[walletID]
	s.mutex.Unlock()
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownWallet, "%s", walletID)
	}

	compact := ecdsa.SignCompact(sk, msg, false)
	sig := make([]byte, SigLen)
	copy(sig, compact[1:])
	sig[64] = compact[0] - compactHeader

	return &para.SignatureResult{Signature: hex.EncodeToString(sig)}, nil
}

// LockAll zeroes and forgets all keys.
func (s *LocalSigner) LockAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, sk := range s.keys {
		sk.Zero()
		delete(s.keys, id)
	}
}
