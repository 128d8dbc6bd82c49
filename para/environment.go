// SPDX-License-Identifier: Apache-2.0

package para

import (
	"strings"

	"github.com/pkg/errors"
)

// Environment selects the Para deployment.
type Environment string

// Supported environments. DEVELOPMENT and PRODUCTION are accepted by
// ParseEnvironment as aliases of BETA and PROD.
const (
	EnvBeta    Environment = "BETA"
	EnvProd    Environment = "PROD"
	EnvSandbox Environment = "SANDBOX"
	EnvDev     Environment = "DEV"
)

var baseURLs = map[Environment]string{
	EnvBeta:    "https://api.beta.getpara.com",
	EnvProd:    "https://api.getpara.com",
	EnvSandbox: "https://api.sandbox.getpara.com",
	EnvDev:     "https://api.dev.getpara.com",
}

// ParseEnvironment normalizes an environment name. Matching is case
// insensitive.
func ParseEnvironment(s string) (Environment, error) {
	switch e := Environment(strings.ToUpper(strings.TrimSpace(s))); e {
	case "DEVELOPMENT":
		return EnvBeta, nil
	case "PRODUCTION":
		return EnvProd, nil
	case EnvBeta, EnvProd, EnvSandbox, EnvDev:
		return e, nil
	default:
		return "", errors.WithMessagef(ErrUnknownEnvironment, "%q", s)
	}
}

// BaseURL returns the API endpoint of the environment.
func (e Environment) BaseURL() (string, error) {
	u, ok := baseURLs[e]
	if !ok {
		return "", errors.WithMessagef(ErrUnknownEnvironment, "%q", string(e))
	}
	return u, nil
}
