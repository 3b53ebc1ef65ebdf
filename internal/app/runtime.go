package app

import (
	"os"
	"sync"
	"sync/atomic"
)

// TestModeEnv names the variable that, when "1", makes the dokon binaries
// return from main before touching Postgres, Redis or the network. The
// repository's testing package sets it for every test binary that imports it.
const TestModeEnv = "DOKON_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeRead sync.Once
)

func readTestMode() {
	testMode.Store(os.Getenv(TestModeEnv) == "1")
}

// InTestMode reports whether DOKON_TEST_MODE was "1" when first checked.
func InTestMode() bool {
	testModeRead.Do(readTestMode)
	return testMode.Load()
}

// RefreshTestMode re-reads DOKON_TEST_MODE, for tests that change it.
func RefreshTestMode() {
	testModeRead.Do(func() {})
	readTestMode()
}
