package dougs

import (
	"github.com/dmitrymomot/dougs/pkg/config"
)

// EnvPrefix prefixes the environment variables read by LoadCredentials.
const EnvPrefix = "DOUGS_"

// Credentials authenticate the client. They are handed to the session
// manager at construction and not kept anywhere else.
type Credentials struct {
	Username string `env:"USERNAME,required"`
	Password string `env:"PASSWORD,required"`
}

// LoadCredentials reads DOUGS_USERNAME and DOUGS_PASSWORD from the
// environment, after merging an optional .env file.
func LoadCredentials(opts ...config.Option) (Credentials, error) {
	var creds Credentials
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&creds, opts...); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// NewFromEnv creates a client with credentials taken from the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return nil, err
	}
	return New(creds, opts...), nil
}
