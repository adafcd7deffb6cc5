package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir       string // where the XML state files live
	HistoryDBPath string // sqlite session archive
	BuiltInDir    string // built-in question sets, one JSON file per exam title

	AutosaveDelay    time.Duration // debounce for state file writes
	MockExamDuration time.Duration // mock-exam countdown
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getenvDefault("DATA_DIR", defaultDataDir())
	return &Config{
		DataDir:          dataDir,
		HistoryDBPath:    getenvDefault("HISTORY_DB_PATH", filepath.Join(dataDir, "practice_history.db")),
		BuiltInDir:       getenvDefault("BUILT_IN_DIR", filepath.Join(dataDir, "built_in_questions")),
		AutosaveDelay:    getDurationDefault("AUTOSAVE_DELAY", 2*time.Second),
		MockExamDuration: getDurationDefault("MOCK_EXAM_DURATION", 60*time.Minute),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ruankao-practice"
	}
	return filepath.Join(home, ".ruankao-practice")
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
