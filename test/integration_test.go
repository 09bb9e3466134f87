// ABOUTME: Integration tests for nutrition CLI.
// ABOUTME: Builds the binary and drives a full logging workflow through it.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "nutrition")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/nutrition")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	// Isolate data and config
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("food", "search", "rice")
	if err != nil {
		t.Fatalf("Failed to search foods: %v\n%s", err, output)
	}
	if !strings.Contains(output, "white-rice") {
		t.Errorf("Expected 'white-rice' in search output, got: %s", output)
	}

	output, err = run("log", "lunch", "white-rice:150", "bread-slice:2", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to log meal: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged 2 item(s) to lunch") {
		t.Errorf("Expected 'Logged 2 item(s) to lunch' in output, got: %s", output)
	}
	if !strings.Contains(output, "355 kcal") {
		t.Errorf("Expected day total '355 kcal' in output, got: %s", output)
	}

	output, err = run("water", "500", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to add water: %v\n%s", err, output)
	}
	if !strings.Contains(output, "500 ml total") {
		t.Errorf("Expected '500 ml total' in output, got: %s", output)
	}

	output, err = run("weight", "add", "81.4", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to add weight: %v\n%s", err, output)
	}

	output, err = run("meals", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to list meals: %v\n%s", err, output)
	}
	if !strings.Contains(output, "White Rice") || !strings.Contains(output, "Whole Wheat Bread") {
		t.Errorf("Expected both foods in meals output, got: %s", output)
	}

	output, err = run("stats", "--days", "1", "--end", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to show stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "1 of 1 days logged") {
		t.Errorf("Expected '1 of 1 days logged' in stats output, got: %s", output)
	}

	// Test export
	output, err = run("export", "json")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, `"version"`) || !strings.Contains(output, `"meals"`) {
		t.Errorf("Expected JSON export, got: %s", output)
	}

	// Migrate to the kv backend and read back through it
	output, err = run("migrate", "--to", "kv", "--switch")
	if err != nil {
		t.Fatalf("Failed to migrate: %v\n%s", err, output)
	}

	output, err = run("meals", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("Failed to list meals after migrate: %v\n%s", err, output)
	}
	if !strings.Contains(output, "White Rice") {
		t.Errorf("Expected migrated meals, got: %s", output)
	}
}
