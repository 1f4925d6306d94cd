package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/coordgraph/internal/app"
	"github.com/specialistvlad/coordgraph/internal/config"
	"github.com/specialistvlad/coordgraph/internal/hcl_adapter"
	"github.com/specialistvlad/coordgraph/internal/registry"
	"github.com/specialistvlad/coordgraph/internal/yaml_adapter"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg, modules...)
}

// RunIntegrationTestWithContext writes files below a temporary root and runs
// the app on them. Relative paths in cfg are resolved against that root.
// GraphPaths defaults to the "graph" directory and DataPath to "data.yaml".
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "graph"), 0o755))

	// 2. Write all files to the temporary directory. Relative names such as
	//    "graph/base.hcl" create the subdirectory structure within tmpDir.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 3. Resolve the configuration against the temporary root.
	if len(cfg.GraphPaths) == 0 {
		cfg.GraphPaths = []string{"graph"}
	}
	for i, p := range cfg.GraphPaths {
		cfg.GraphPaths[i] = filepath.Join(tmpDir, p)
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "data.yaml"
	}
	cfg.DataPath = filepath.Join(tmpDir, cfg.DataPath)
	if cfg.Format == "" {
		cfg.Format = app.FormatYAML
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	loaders := []config.Loader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}

	var (
		testApp *app.App
		runErr  error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp, runErr = app.NewApp(out, logBuffer, &cfg, loaders, modules...)
	}()
	if runErr == nil {
		runErr = testApp.Run(ctx)
	}

	if os.Getenv("COORDGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
