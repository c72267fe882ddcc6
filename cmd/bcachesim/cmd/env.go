package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that provide defaults for the run flags.
const (
	EnvMemLatency = "BCACHE_MEM_LATENCY"
	EnvStallProb  = "BCACHE_STALL_PROB"
	EnvSrcDelay   = "BCACHE_SRC_DELAY"
	EnvSinkDelay  = "BCACHE_SINK_DELAY"
	EnvSeed       = "BCACHE_SEED"
	EnvTraceDB    = "BCACHE_TRACE_DB"
)

// loadEnvFile loads the variables of the file into the environment. Variables
// that are already set keep their value. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

func envInt(key string, value *int) error {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}

	*value = n

	return nil
}

func envInt64(key string, value *int64) error {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}

	*value = n

	return nil
}

func envFloat(key string, value *float64) error {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}

	*value = f

	return nil
}

func envString(key string, value *string) {
	if s, ok := os.LookupEnv(key); ok && s != "" {
		*value = s
	}
}
