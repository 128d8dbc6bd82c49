// SPDX-License-Identifier: Apache-2.0

package client_test

import (
	"context"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/miden-para/miden-para-go/client"
	"github.com/miden-para/miden-para-go/miden"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/rpo"
)

const (
	walletID = "3f1d2b9e-5c1a-4e0b-9d6f-8a7c2e4b1f00"
	// secp256k1 generator
	generatorKey = "0x0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
		"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	generatorCommitment = "0xe92aff28198dc3be600acfe07a1357523e1c4ec8c6f610664baad92f616a05a0"
)

// fakeSession is an in memory Para session.
type fakeSession struct {
	mu sync.Mutex

	loggedIn  bool
	loginErr  error
	wallets   []para.Wallet
	token     string
	jwtCalls  int
	logouts   int
	signature string
	signErr   error
}

func (s *fakeSession) IsFullyLoggedIn(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn, s.loginErr
}

func (s *fakeSession) Wallets(context.Context) ([]para.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets, nil
}

func (s *fakeSession) IssueJWT(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jwtCalls++
	return s.token, nil
}

func (s *fakeSession) Logout(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	s.loggedIn = false
	return nil
}

func (s *fakeSession) SignMessage(context.Context, string, string) (*para.SignatureResult, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	return &para.SignatureResult{Signature: s.signature}, nil
}

func (s *fakeSession) setLoggedIn(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = v
}

func evmWallet(publicKey string) para.Wallet {
	return para.Wallet{ID: walletID, Type: para.WalletTypeEVM, PublicKey: publicKey}
}

func sessionToken(t *testing.T, wallets ...para.Wallet) string {
	t.Helper()
	connected := make([]map[string]interface{}, 0, len(wallets))
	for _, w := range wallets {
		connected = append(connected, map[string]interface{}{
			"id":        w.ID,
			"type":      string(w.Type),
			"publicKey": w.PublicKey,
		})
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"data": map[string]interface{}{"connectedWallets": connected},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

// fakeMiden records the calls of NewParaMidenClient.
type fakeMiden struct {
	opts    miden.ClientOpts
	sign    miden.SignCallback
	cfg     miden.AccountConfig
	synced  bool
	newErr  error
	syncErr error
}

func (m *fakeMiden) NewAccount(_ context.Context, cfg miden.AccountConfig) (miden.AccountID, error) {
	m.cfg = cfg
	return "0xacc0", m.newErr
}

func (m *fakeMiden) SyncState(context.Context) error {
	m.synced = true
	return m.syncErr
}

func (m *fakeMiden) factory(_ context.Context, opts miden.ClientOpts, sign miden.SignCallback) (miden.Client, error) {
	m.opts = opts
	m.sign = sign
	return m, nil
}

func TestNewParaMidenClient(t *testing.T) {
	s := &fakeSession{signature: "0xaabb"}
	m := &fakeMiden{}
	opts := client.Opts{
		ClientOpts:  miden.ClientOpts{Endpoint: "http://localhost:57291"},
		AccountType: miden.RegularAccountUpdatableCode,
		StorageMode: miden.StoragePrivate,
	}

	pmc, err := client.NewParaMidenClient(context.Background(), s, evmWallet(generatorKey), m.factory, opts)
	require.NoError(t, err)
	require.Equal(t, miden.AccountID("0xacc0"), pmc.AccountID)
	require.Same(t, m, pmc.Client)
	require.True(t, m.synced)
	require.Equal(t, "http://localhost:57291", m.opts.Endpoint)
	require.Zero(t, s.jwtCalls, "wallet carries its key, no jwt needed")

	require.Equal(t, generatorCommitment, m.cfg.PublicKeyCommitment.Hex())
	require.Equal(t, miden.RegularAccountUpdatableCode, m.cfg.AccountType)
	require.Equal(t, miden.StoragePrivate, m.cfg.StorageMode)
	require.Equal(t, &[miden.AccountSeedSize]byte{}, m.cfg.AccountSeed)

	sig, err := m.sign(context.Background(), nil, rpo.Digest{1})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0xaa, 0xbb, 0}, sig)
}

func TestNewParaMidenClientSeed(t *testing.T) {
	m := &fakeMiden{}
	opts := client.Opts{AccountSeed: "seed"}

	pmc, err := client.NewParaMidenClient(context.Background(), &fakeSession{}, evmWallet(generatorKey), m.factory, opts)
	require.NoError(t, err)
	require.Equal(t, miden.AccountSeedFromString("seed"), pmc.Account.AccountSeed)
}

func TestNewParaMidenClientJWTFallback(t *testing.T) {
	s := &fakeSession{}
	s.token = sessionToken(t, evmWallet(generatorKey))
	m := &fakeMiden{}

	_, err := client.NewParaMidenClient(context.Background(), s, evmWallet(""), m.factory, client.Opts{})
	require.NoError(t, err)
	require.Equal(t, 1, s.jwtCalls)
	require.Equal(t, generatorCommitment, m.cfg.PublicKeyCommitment.Hex())
}

func TestNewParaMidenClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("wallet not in jwt", func(t *testing.T) {
		s := &fakeSession{token: sessionToken(t)}
		_, err := client.NewParaMidenClient(ctx, s, evmWallet(""), (&fakeMiden{}).factory, client.Opts{})
		require.True(t, errors.Is(err, para.ErrWalletNotFound))
	})

	t.Run("bad public key", func(t *testing.T) {
		_, err := client.NewParaMidenClient(ctx, &fakeSession{}, evmWallet("0x02abcd"), (&fakeMiden{}).factory, client.Opts{})
		require.Error(t, err)
	})

	t.Run("new account", func(t *testing.T) {
		failure := errors.New("store locked")
		m := &fakeMiden{newErr: failure}
		_, err := client.NewParaMidenClient(ctx, &fakeSession{}, evmWallet(generatorKey), m.factory, client.Opts{})
		require.True(t, errors.Is(err, failure))
		require.False(t, m.synced)
	})

	t.Run("sync", func(t *testing.T) {
		failure := errors.New("node unreachable")
		m := &fakeMiden{syncErr: failure}
		_, err := client.NewParaMidenClient(ctx, &fakeSession{}, evmWallet(generatorKey), m.factory, client.Opts{})
		require.True(t, errors.Is(err, failure))
	})

	t.Run("factory", func(t *testing.T) {
		failure := errors.New("wasm not loaded")
		factory := func(context.Context, miden.ClientOpts, miden.SignCallback) (miden.Client, error) {
			return nil, failure
		}
		_, err := client.NewParaMidenClient(ctx, &fakeSession{}, evmWallet(generatorKey), factory, client.Opts{})
		require.True(t, errors.Is(err, failure))
	})
}
