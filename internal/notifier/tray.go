package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dearme/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var trayExecutable = constants.AppName + "-tray"

// TrayNotifier posts reminders to the desktop tray companion over its local
// webhook. The tray advertises itself through a "port|pid|secret" lockfile.
type TrayNotifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
	Sound      bool   `json:"sound,omitempty"`
	Badge      bool   `json:"badge,omitempty"`
}

func NewTrayNotifier() *TrayNotifier {
	return &TrayNotifier{client: &http.Client{}}
}

func (n *TrayNotifier) Send(ctx context.Context, note Notification) error {
	// The tray has no silent mode; without an alert there is nothing to show.
	if !note.Policy.ShowAlert {
		return nil
	}

	configDir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(configDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       note.Text(),
		DurationMs: constants.NotificationDurationMs,
		Sound:      note.Policy.PlaySound,
		Badge:      note.Policy.SetBadge,
	}
	return n.post(ctx, "http://127.0.0.1:"+port, secret, payload)
}

// TrayAvailable reports whether the tray companion has published a valid
// lockfile for a live process. The error says why it is unavailable.
func TrayAvailable() error {
	configDir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	_, _, err = findAndValidateTrayProcess(filepath.Join(configDir, constants.NotifierLockfileName))
	return err
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The
// tray may relocate it through lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
			return *dir, nil
		}
	}
	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", fmt.Errorf("%s is not running", trayExecutable)
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", fmt.Errorf("%s process not running", trayExecutable)
	}
	if !strings.HasPrefix(process.Executable(), trayExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayExecutable, process.Executable())
	}

	return port, secret, nil
}

func (n *TrayNotifier) post(ctx context.Context, url, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dearme-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
