package e2e_test

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testPublicKey  = "public_e2eXi0kqBnYrQ3mT8vEcXQ2aZk="
	testPrivateKey = "private_e2eXi0kqBnYrQ3mT8vEcXQ2aZk="
	testEndpoint   = "https://ik.imagekit.io/e2e"
)

var (
	binaries      = map[string]string{}
	binaryErrs    = map[string]error{}
	binaryMu      sync.Mutex
	sharedTempDir string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "ikauth-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// ServerConfig holds configuration for starting the ikauth server.
type ServerConfig struct {
	Port        int
	URLEndpoint string
	PublicKey   string
	PrivateKey  string // written inline when set
	KeysFile    string
	TokenTTL    int
}

// buildBinary compiles the command under ./cmd/<name> once per test run.
func buildBinary(t *testing.T, name string) string {
	t.Helper()

	binaryMu.Lock()
	defer binaryMu.Unlock()

	if path, ok := binaries[name]; ok {
		return path
	}
	if err, ok := binaryErrs[name]; ok {
		t.Fatalf("failed to build %s: %v", name, err)
	}

	path := filepath.Join(sharedTempDir, name)
	cmd := exec.Command("go", "build", "-o", path, "./cmd/"+name)
	cmd.Dir = getProjectRoot(t)
	output, err := cmd.CombinedOutput()
	if err != nil {
		binaryErrs[name] = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
		t.Fatalf("failed to build %s: %v", name, binaryErrs[name])
	}

	binaries[name] = path
	return path
}

// getProjectRoot returns the root directory of the ikauth module.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes a config file for the server and returns its path.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 1800
	}

	content := fmt.Sprintf(`server:
  port: %d

imagekit:
  url_endpoint: %q
  public_key: %q
  private_key: %q
  keys_file: %q
  token_ttl: %d

client:
  auth_endpoint: "http://localhost:%d/auth"

log:
  level: error
`, cfg.Port, cfg.URLEndpoint, cfg.PublicKey, cfg.PrivateKey, cfg.KeysFile, ttl, cfg.Port)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "write config file")

	return configPath
}

// isolatedEnv keeps ImageKit variables from the developer's shell out of
// the child process.
func isolatedEnv(extra ...string) []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
	}
	return append(env, extra...)
}

// runServer runs `ikauth serve` with cfg and returns the command without
// waiting for it.
func runServer(t *testing.T, cfg ServerConfig, env ...string) *exec.Cmd {
	t.Helper()

	binary := buildBinary(t, "ikauth")
	configPath := createConfigFile(t, cfg)

	cmd := exec.Command(binary, "serve", "--config", configPath)
	cmd.Dir = t.TempDir()
	cmd.Env = isolatedEnv(env...)
	return cmd
}

// startServer starts the ikauth binary and waits until it answers.
// Returns the base URL and a cleanup function that must be called to stop the server.
func startServer(t *testing.T, cfg ServerConfig, env ...string) (string, func()) {
	t.Helper()

	cmd := runServer(t, cfg, env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)

	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// waitForServer polls the health endpoint until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}
