package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCommand_OpenErrorReportedOnce(t *testing.T) {
	logDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "ttyMISSING")

	rootCmd.SetArgs([]string{"run", "--port", missing, "--headless", "--http", "", "--history", "", "--log-dir", logDir})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		if appLogger != nil {
			appLogger.Close()
			appLogger = nil
		}
	})

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatalf("run --port %s succeeded, expected an open error", missing)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("run error = %q, expected it to name %s", err, missing)
	}

	// the caller prints the returned error, so it must not be logged too
	data, readErr := os.ReadFile(filepath.Join(logDir, "error.log"))
	if readErr != nil {
		t.Fatalf("ReadFile failed: %v", readErr)
	}
	if strings.Contains(string(data), missing) {
		t.Errorf("error.log = %q, expected the open error to be left to the caller", data)
	}
}
