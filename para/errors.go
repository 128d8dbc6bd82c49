// SPDX-License-Identifier: Apache-2.0

package para

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownEnvironment the environment name is not supported.
	ErrUnknownEnvironment = errors.New("unknown para environment")
	// ErrUnexpectedStatus the Para API answered with a non 2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from para api")
	// ErrInvalidJWT the session token could not be decoded or has no data claim.
	ErrInvalidJWT = errors.New("got invalid jwt token")
	// ErrWalletNotFound the wallet is not part of the session's connected wallets.
	ErrWalletNotFound = errors.New("wallet not found in jwt data")
	// ErrInvalidWalletID a wallet id was not a UUID.
	ErrInvalidWalletID = errors.New("invalid wallet id")
	// ErrMissingAPIKey no API key was configured.
	ErrMissingAPIKey = errors.New("missing para api key")
)
