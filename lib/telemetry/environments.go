package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
)

var setupTestEnvironments = map[string]bool{}

// sets up slog and telemetry in a testing environment, ensuring that
// it isn't set up more than once per package
func SetupForTesting(t testing.TB, name string) func() {
	serviceName := fmt.Sprintf("test:%s", name)
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(slog.LevelDebug)
	tel, err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}
