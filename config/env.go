package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads the .env file of the working directory, or the given files
// instead, into the process environment. Variables already set win. A missing
// default .env is not an error.
func LoadEnv(filenames ...string) error {
	if len(filenames) > 0 {
		return godotenv.Load(filenames...)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	envPath := filepath.Join(pwd, ".env")

	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return godotenv.Load(envPath)
}

func GetEnvInt(name string, onResult func(int)) error {
	text := os.Getenv(name)
	if len(text) > 0 {
		v, err := strconv.Atoi(text)
		if err != nil {
			return err
		}
		onResult(v)
	}
	return nil
}

func GetEnvBool(name string, onResult func(bool)) error {
	text := os.Getenv(name)
	if len(text) > 0 {
		v, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		onResult(v)
	}
	return nil
}
