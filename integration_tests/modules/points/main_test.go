//go:build integration

package pointsintegrationtests

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/Black-And-White-Club/pathfinder-club/integration_tests/testutils"
)

// testEnv is the shared test environment managed by TestMain.
var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	ctx := context.Background()
	env, err := testutils.NewTestEnvironment(ctx)
	if err != nil {
		log.Fatalf("failed to set up test environment: %v", err)
	}
	testEnv = env

	code := m.Run()
	env.Close(ctx)
	os.Exit(code)
}
