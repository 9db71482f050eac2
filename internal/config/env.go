package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the CLI.
const (
	EnvConfig = "MAPWIRE_CONFIG"
	EnvDebug  = "MAPWIRE_DEBUG"
)

// Env holds the settings taken from the environment.
type Env struct {
	ConfigPath string
	Debug      bool
}

// LoadEnv loads the .env files (".env" when none are named) into the
// process environment without overriding variables already set, then reads
// the mapwire variables. Missing .env files are ignored.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	env := Env{ConfigPath: strings.TrimSpace(os.Getenv(EnvConfig))}

	if raw := strings.TrimSpace(os.Getenv(EnvDebug)); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return Env{}, fmt.Errorf("parsing %s: %w", EnvDebug, err)
		}

		env.Debug = debug
	}

	return env, nil
}
