package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or parent
// directory, if one exists. It runs at most once and never overrides variables
// already present in the environment.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// ExpandDirectory resolves the snapshot directory, defaulting to
// $HOME/.finance-peres when dir is empty.
func ExpandDirectory(dir string) string {
	if dir != "" {
		return os.ExpandEnv(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finance-peres"
	}
	return filepath.Join(home, ".finance-peres")
}
