package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is the optional local override file read before the environment
// is parsed.
const DotEnvFile = ".env"

// ParseEnv loads configuration from environment variables, after merging any
// values from a local .env file. Variables already present in the process
// environment win over the file.
func ParseEnv(target any) error {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return err
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv merges the given dotenv files into the process environment.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
