package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
)

// Init runs after config loading at boot, so the logging section must be
// honored rather than silently falling back to defaults.
func TestInitHonorsConfiguredDirectory(t *testing.T) {
	old := config.Conf
	defer func() { config.Conf = old }()
	config.Conf = &config.Config{
		Logging: config.LoggingConfig{Directory: "applogs", MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	}

	root := t.TempDir()
	log, err := Init(root)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer log.Sync()

	if _, err := os.Stat(filepath.Join(root, "applogs")); err != nil {
		t.Errorf("configured log directory was not created: %v", err)
	}
}

func TestInitWithoutConfigFallsBack(t *testing.T) {
	old := config.Conf
	defer func() { config.Conf = old }()
	config.Conf = nil

	root := t.TempDir()
	log, err := Init(root)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer log.Sync()

	if _, err := os.Stat(filepath.Join(root, "logs")); err != nil {
		t.Errorf("fallback log directory was not created: %v", err)
	}
}
