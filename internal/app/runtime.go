package app

import (
	"os"
	"sync"
)

const testModeEnv = "STOCKCRAFTSMAN_TEST_MODE"

var (
	testModeOnce sync.Once
	testMode     bool
)

// InTestMode reports whether the process should skip side effects such as
// opening database connections. Set STOCKCRAFTSMAN_TEST_MODE=1 to enable.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testMode = os.Getenv(testModeEnv) == "1"
	})
	return testMode
}
