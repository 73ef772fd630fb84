package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the connection settings for the remote store. It is passed
// explicitly into pipeline constructors so tests can substitute a fake.
type Config struct {
	SupabaseURL string `validate:"required,url"`
	SupabaseKey string `validate:"required"`
}

// Load reads SUPABASE_URL and SUPABASE_ANON_KEY from the environment,
// optionally seeding it from a dotenv file first. A missing dotenv file is
// not an error; missing or malformed settings are.
func Load(envFile string) (*Config, error) {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		SupabaseURL: strings.TrimSpace(os.Getenv("SUPABASE_URL")),
		SupabaseKey: strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY")),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid supabase config: %w", err)
	}
	return cfg, nil
}
