package acceptor_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain runs all tests in the acceptor_test package and checks for
// goroutine leaks after all tests complete. Any leaked accept-loop
// goroutine causes a test failure.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
