package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dearme/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := stubConfigDir(t)
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/dearme/dir"}}`
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/custom/dearme/dir" {
		t.Errorf("expected custom dir, got %s", dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two part format", "8080|12345", "dearme-tray", "malformed"},
		{"garbage", "invalid", "dearme-tray", "malformed"},
		{"empty secret", "8080|12345|", "dearme-tray", "secret"},
		{"empty port", "|12345|s3cret", "dearme-tray", "port"},
		{"port out of range", "99999|12345|s3cret", "dearme-tray", "range"},
		{"bad pid", "8080|abc|s3cret", "dearme-tray", "process ID"},
		{"process gone", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not dearme-tray"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	stubProcess(t, "dearme-tray")
	if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %s secret %s", port, secret)
	}
}

func TestTrayNotifierSend(t *testing.T) {
	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Dearme-Secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	base := stubConfigDir(t)
	stubProcess(t, "dearme-tray")
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lockfile := filepath.Join(trayDir, constants.NotifierLockfileName)
	if err := os.WriteFile(lockfile, []byte(u.Port()+"|42|s3cret"), 0644); err != nil {
		t.Fatal(err)
	}

	n := NewTrayNotifier()
	note := Notification{
		Title:  "🙂 Habit reminder",
		Body:   "stretch",
		Policy: Policy{ShowAlert: true, PlaySound: true},
	}
	if err := n.Send(context.Background(), note); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if received.Text != "🙂 Habit reminder: stretch" || !received.Sound || received.Badge {
		t.Errorf("unexpected payload %+v", received)
	}
	if received.DurationMs != constants.NotificationDurationMs {
		t.Errorf("DurationMs = %d", received.DurationMs)
	}

	if err := os.WriteFile(lockfile, []byte(u.Port()+"|42|wrong"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := n.Send(context.Background(), note); err == nil {
		t.Error("expected error for rejected secret")
	}

	// Without an alert the tray is never contacted.
	note.Policy.ShowAlert = false
	if err := n.Send(context.Background(), note); err != nil {
		t.Errorf("Send() without alert error = %v", err)
	}
}

func TestTrayAvailable(t *testing.T) {
	base := stubConfigDir(t)
	stubProcess(t, "dearme-tray")

	if err := TrayAvailable(); err == nil || !strings.Contains(err.Error(), "dearme-tray is not running") {
		t.Fatalf("expected missing tray error, got %v", err)
	}

	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte("8080|42|s3cret"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := TrayAvailable(); err != nil {
		t.Errorf("TrayAvailable() = %v", err)
	}
}
