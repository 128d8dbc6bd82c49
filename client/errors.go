// SPDX-License-Identifier: Apache-2.0
package client

import (
	"github.com/pkg/errors"
)

// ErrNotConnected is returned when signing without a connected Para wallet.
var ErrNotConnected = errors.New("para wallet not connected")
