// Package config loads configuration structs from the environment.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// optional `.env` files are merged into the process environment (existing
// variables win), then the struct is populated from its `env` field tags.
//
//	type Credentials struct {
//		Username string `env:"USERNAME,required"`
//		Password string `env:"PASSWORD,required"`
//	}
//
//	var creds Credentials
//	if err := config.Load(&creds, config.WithPrefix("DOUGS_")); err != nil {
//		return err
//	}
//
// Unlike an application-level loader nothing is cached: each call parses the
// environment again, which keeps library consumers free of hidden global state.
package config
