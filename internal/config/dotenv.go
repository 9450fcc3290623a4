package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"pharmaduty-go/pkg/logger"
)

const defaultEnvFile = ".env"

// loadDotEnv reads ENV_FILE (default ./.env) when it exists. Variables already present in the
// process environment win over the file.
func loadDotEnv(log logger.Logger) error {
	path := os.Getenv("ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			log.Debug("dotenv: no file found", "path", path)
			return nil
		}
		return err
	}

	if err := godotenv.Load(path); err != nil {
		return err
	}
	log.Info("dotenv: loaded", "path", path)
	return nil
}
