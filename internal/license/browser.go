package license

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser launches the platform's default URL opener on the activation
// page. The engine logs and continues on failure; the user can still reach
// the page manually while the poll loop runs.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}
