package systems

import (
	"os"
	"testing"

	"tactics-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.InitSilent()

	// Exit with the result of the tests
	os.Exit(m.Run())
}
