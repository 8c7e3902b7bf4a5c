package combat

import (
	"os"
	"testing"

	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}
