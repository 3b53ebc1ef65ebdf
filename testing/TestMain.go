// Package testing is imported for its side effect by tests that exercise a
// dokon main package: it sets DOKON_TEST_MODE=1 before main runs, so main
// returns without loading config or dialling Postgres and Redis.
package testing

import (
	"os"
	stdtesting "testing"

	"github.com/dokon-erp/dokon/internal/app"
)

func init() {
	_ = os.Setenv(app.TestModeEnv, "1")
	app.RefreshTestMode()
}

// TestMain lets a package use this file's setup as its own TestMain.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
