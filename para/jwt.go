// SPDX-License-Identifier: Apache-2.0

package para

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// JWTIssuer issues session tokens. It is implemented by Client.
type JWTIssuer interface {
	IssueJWT(ctx context.Context) (string, error)
}

type sessionClaims struct {
	Data *struct {
		ConnectedWallets []Wallet `json:"connectedWallets"`
	} `json:"data"`
	jwt.RegisteredClaims
}

// ConnectedWallets reads the connected wallets from a session token. The
// token was just issued to us by Para over TLS, so its signature is not
// checked here.
func ConnectedWallets(token string) ([]Wallet, error) {
	claims := new(sessionClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.WithMessage(ErrInvalidJWT, err.Error())
	}
	if claims.Data == nil {
		return nil, errors.WithMessage(ErrInvalidJWT, "missing data claim")
	}
	return claims.Data.ConnectedWallets, nil
}

// UncompressedPublicKey returns the wallet's public key, falling back to the
// connected wallets of a freshly issued session token when the wallet object
// does not carry one.
func UncompressedPublicKey(ctx context.Context, issuer JWTIssuer, w Wallet) (string, error) {
	if w.PublicKey != "" {
		return w.PublicKey, nil
	}

	token, err := issuer.IssueJWT(ctx)
	if err != nil {
		return "", errors.WithMessage(err, "issuing jwt")
	}
	wallets, err := ConnectedWallets(token)
	if err != nil {
		return "", err
	}
	for _, cw := range wallets {
		if cw.ID == w.ID {
			if cw.PublicKey == "" {
				break
			}
			return cw.PublicKey, nil
		}
	}
	return "", errors.WithMessagef(ErrWalletNotFound, "wallet %s", w.ID)
}
