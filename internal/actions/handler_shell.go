package actions

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Environment variables describing the call, visible to shell bindings
const (
	EnvAction = "LAUNCHKEY_ACTION"
	EnvArgs   = "LAUNCHKEY_ARGS"
)

// ShellHandler runs shell bindings
type ShellHandler struct{}

func (h *ShellHandler) IsSupported() bool {
	return runtime.GOOS != "windows" || h.lookPowerShell()
}

func (h *ShellHandler) lookPowerShell() bool {
	_, err := exec.LookPath("powershell")
	return err == nil
}

func (h *ShellHandler) command(code string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", code), nil
	case "darwin", "linux", "freebsd":
		return exec.Command(h.shellPath(), "-c", code), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// shellPath prefers bash and falls back to sh, which is all a minimal
// Linux image has
func (h *ShellHandler) shellPath() string {
	if path, err := exec.LookPath("bash"); err == nil {
		return path
	}
	return "/bin/sh"
}

func (h *ShellHandler) Execute(code string, call Call) (string, error) {
	cmd, err := h.command(code)
	if err != nil {
		return "", err
	}
	cmd.Env = append(os.Environ(),
		EnvAction+"="+call.Name,
		EnvArgs+"="+strings.Join(call.ArgStrings(), " "),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return stdout.String(), fmt.Errorf("shell error: %s", errMsg)
		}
		return stdout.String(), fmt.Errorf("shell execution failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (h *ShellHandler) Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("empty command")
	}
	if strings.Contains(code, "\x00") {
		return fmt.Errorf("command contains null bytes")
	}
	if runtime.GOOS == "windows" {
		return nil
	}

	// -n parses without executing
	cmd := exec.Command(h.shellPath(), "-n", "-c", code)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return fmt.Errorf("syntax error: %s", errMsg)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// GetShellName returns the name of the shell used on this platform
func (h *ShellHandler) GetShellName() string {
	if runtime.GOOS == "windows" {
		return "PowerShell"
	}
	return h.shellPath()
}
