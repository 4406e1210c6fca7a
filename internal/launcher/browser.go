package launcher

import (
	"log"
	"os/exec"
	"runtime"
)

// Browser opens URLs in the user's default browser.
type Browser struct{}

// NewBrowser creates a browser navigator.
func NewBrowser() *Browser {
	return &Browser{}
}

// OpenURL hands the URL to the platform shell.
func (b *Browser) OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	log.Printf("🌐 [BROWSER] Opened %s", url)
	return nil
}
