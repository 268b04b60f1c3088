// Package open hands track pages to the system browser.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/maboroshi-cli/maboroshi/constant"
)

// Start opens a web page with the default handler and returns without waiting.
// Only http and https URLs are accepted.
func Start(page string) error {
	if err := validate(page); err != nil {
		return err
	}

	cmd, ok := command(page)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func validate(page string) error {
	u, err := url.Parse(page)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", page, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web page", page)
	}

	return nil
}

func command(page string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", page), true
	case constant.Darwin:
		return exec.Command("open", page), true
	case constant.Linux:
		return exec.Command("xdg-open", page), true
	case constant.Android:
		return exec.Command("termux-open", page), true
	default:
		return nil, false
	}
}
