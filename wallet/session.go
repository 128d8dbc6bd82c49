// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/miden-para/miden-para-go/para"
)

// LocalSession serves the session calls of the Para API from a LocalSigner.
// It is logged in until Logout is called.
type LocalSession struct {
	*LocalSigner

	mutex     sync.Mutex
	loggedOut bool
	jwtKey    []byte
}

// NewLocalSession creates a logged in session over s.
func NewLocalSession(s *LocalSigner) *LocalSession {
	return &LocalSession{LocalSigner: s, jwtKey: keccak256(s.seed[:])}
}

// NewLocalSignerFromSeed derives a signer deterministically from seed, so
// the same seed always yields the same wallets.
func NewLocalSignerFromSeed(seed string) (*LocalSigner, error) {
	return NewLocalSigner(bytes.NewReader(keccak256([]byte(seed))))
}

// IsFullyLoggedIn reports whether Logout was not called yet.
func (s *LocalSession) IsFullyLoggedIn(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return !s.loggedOut, nil
}

// Wallets returns the signer's wallets. A logged out session has none.
func (s *LocalSession) Wallets(ctx context.Context) ([]para.Wallet, error) {
	if ok, err := s.IsFullyLoggedIn(ctx); err != nil || !ok {
		return nil, err
	}
	return s.LocalSigner.Wallets(), nil
}

// IssueJWT issues an HS256 session token whose data claim lists the
// signer's wallets, shaped like the tokens Para issues.
func (s *LocalSession) IssueJWT(ctx context.Context) (string, error) {
	wallets, err := s.Wallets(ctx)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"data": map[string]interface{}{"connectedWallets": wallets},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	return token, errors.Wrap(err, "signing session token")
}

// Logout ends the session. The keys are kept.
func (s *LocalSession) Logout(context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.loggedOut = true
	return nil
}
