//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// dekadServer manages a running dekad server process.
type dekadServer struct {
	cmd       *exec.Cmd
	dataDir   string
	dbPath    string
	backupDir string
	address   string
	apiKey    string
	logFile   string
}

// startDekad launches the dekad binary and waits for it to become healthy.
// The server is configured entirely via environment variables.
func startDekad(t *testing.T) *dekadServer {
	t.Helper()
	requireDekad(t)

	dataDir := t.TempDir()
	port := freePort(t)
	s := &dekadServer{
		dataDir:   dataDir,
		dbPath:    filepath.Join(dataDir, "dekad.db"),
		backupDir: filepath.Join(dataDir, "backups"),
		address:   fmt.Sprintf("127.0.0.1:%d", port),
		apiKey:    testAPIKey,
		logFile:   filepath.Join(dataDir, "dekad.log"),
	}

	cmd := exec.Command(dekadBin)
	cmd.Env = append(s.env(),
		fmt.Sprintf("DEKAD_PORT=%d", port),
		"DEKAD_API_KEY="+s.apiKey,
		"DEKAD_LOG_FORMAT=text",
	)

	lf, err := os.Create(s.logFile)
	if err != nil {
		t.Fatalf("create log file: %v", err)
	}
	cmd.Stdout = lf
	cmd.Stderr = lf

	if err := cmd.Start(); err != nil {
		lf.Close()
		t.Fatalf("start dekad: %v", err)
	}
	s.cmd = cmd

	t.Cleanup(func() {
		s.stop()
		lf.Close()
		if t.Failed() {
			if logs, err := os.ReadFile(s.logFile); err == nil {
				t.Logf("dekad log:\n%s", logs)
			}
		}
	})

	if err := s.waitHealthy(10 * time.Second); err != nil {
		t.Fatalf("dekad not healthy: %v", err)
	}
	return s
}

// env is the environment shared by the server and CLI invocations against
// the same data directory.
func (s *dekadServer) env() []string {
	return append(os.Environ(),
		"DEKAD_DB_PATH="+s.dbPath,
		"DEKAD_BACKUP_DIR="+s.backupDir,
		"DEKAD_BACKUP_BUCKET=",
		"DEKAD_CONFIG_PATH="+filepath.Join(s.dataDir, "nonexistent.yaml"),
		"DEKAD_ENV_FILE="+filepath.Join(s.dataDir, "nonexistent.env"),
	)
}

func (s *dekadServer) stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(os.Interrupt)
		_ = s.cmd.Wait()
	}
}

func (s *dekadServer) baseURL() string {
	return fmt.Sprintf("http://%s", s.address)
}

func (s *dekadServer) waitHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("%s/api/v1/health", s.baseURL())

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("dekad not healthy after %s", timeout)
}

// do sends an authenticated request to the running server, checks the
// status and decodes the body into out when out is non-nil.
func (s *dekadServer) do(t *testing.T, method, path string, body any, want int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.baseURL()+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d: %s", method, path, resp.StatusCode, want, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode: %v: %s", method, path, err, data)
		}
	}
}

// runCLI runs a dekad subcommand against the server's database and returns
// its stdout.
func (s *dekadServer) runCLI(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(dekadBin, args...)
	cmd.Env = s.env()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("dekad %v: %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String()
}

// freePort returns a free TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
