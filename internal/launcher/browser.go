package launcher

import (
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"browserdap/internal/config"
	"browserdap/internal/errors"
	"browserdap/pkg/types"
)

// wellKnownPaths lists the usual install locations per platform and
// browser family. Order matters: the first existing path wins.
func wellKnownPaths(kind types.BrowserKind) []string {
	switch runtime.GOOS {
	case "darwin":
		switch kind {
		case types.BrowserEdge:
			return []string{
				"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			}
		case types.BrowserChromium:
			return []string{
				"/Applications/Chromium.app/Contents/MacOS/Chromium",
			}
		default:
			return []string{
				"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
				"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
			}
		}
	case "windows":
		programFiles := os.Getenv("PROGRAMFILES")
		programFilesX86 := os.Getenv("PROGRAMFILES(X86)")
		localAppData := os.Getenv("LOCALAPPDATA")
		switch kind {
		case types.BrowserEdge:
			return []string{
				filepath.Join(programFilesX86, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(programFiles, "Microsoft", "Edge", "Application", "msedge.exe"),
			}
		case types.BrowserChromium:
			return []string{
				filepath.Join(localAppData, "Chromium", "Application", "chrome.exe"),
			}
		default:
			return []string{
				filepath.Join(localAppData, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(programFiles, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(programFilesX86, "Google", "Chrome", "Application", "chrome.exe"),
			}
		}
	default:
		switch kind {
		case types.BrowserEdge:
			return []string{
				"/usr/bin/microsoft-edge",
				"/usr/bin/microsoft-edge-stable",
			}
		case types.BrowserChromium:
			return []string{
				"/usr/bin/chromium",
				"/usr/bin/chromium-browser",
				"/snap/bin/chromium",
			}
		default:
			return []string{
				"/usr/bin/google-chrome",
				"/usr/bin/google-chrome-stable",
				"/usr/bin/chromium",
				"/usr/bin/chromium-browser",
				"/snap/bin/chromium",
			}
		}
	}
}

// pathCommands maps browser families to the executable names probed on PATH
// as a final fallback.
func pathCommands(kind types.BrowserKind) []string {
	switch kind {
	case types.BrowserEdge:
		return []string{"msedge", "microsoft-edge"}
	case types.BrowserChromium:
		return []string{"chromium", "chromium-browser"}
	default:
		return []string{"google-chrome", "chromium", "chromium-browser"}
	}
}

// FindBrowser locates the browser executable. An explicit override (from
// the launch configuration or bridge config) wins; otherwise extra search
// paths from the config are probed, then the platform's well-known install
// locations, then PATH lookup. All probed locations are reported in the
// error when nothing is found.
func FindBrowser(cfg config.BrowserConfig, kind types.BrowserKind, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg.ExecutablePath != "" {
		return cfg.ExecutablePath, nil
	}

	probed := make([]string, 0, 8)
	for _, p := range cfg.ExtraSearchPaths {
		probed = append(probed, p)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	for _, p := range wellKnownPaths(kind) {
		probed = append(probed, p)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	for _, name := range pathCommands(kind) {
		probed = append(probed, name)
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}

	return "", errors.BrowserNotFound(probed)
}

// FileURL converts a local filesystem path into a percent-encoded
// file:// URL. Relative paths are made absolute first.
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths need a leading slash in the URL path.
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// resolveTarget turns the launch configuration's target into the URL the
// browser opens. A file target must exist before anything is spawned. When
// neither file nor url is given, the bundled landing page next to the
// bridge executable is used.
func resolveTarget(req *types.LaunchRequest, landingPage string) (string, error) {
	if req.File != "" {
		if _, err := os.Stat(req.File); err != nil {
			return "", errors.TargetNotFound(req.File)
		}
		return FileURL(req.File), nil
	}
	if req.URL != "" {
		return req.URL, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "about:blank", nil
	}
	return FileURL(filepath.Join(filepath.Dir(exe), landingPage)), nil
}

// BuildArgs assembles the browser command line. The remote-debugging port
// flag and its value are separate arguments, and the target URL is the
// final positional argument.
func BuildArgs(req *types.LaunchRequest, port int, targetURL string) []string {
	args := []string{
		"--remote-debugging-port", strconv.Itoa(port),
		"--no-first-run",
		"--no-default-browser-check",
	}
	if req.UserDataDir != "" {
		args = append(args, "--user-data-dir="+req.UserDataDir)
	}
	if req.Headless {
		args = append(args, "--headless")
	}
	args = append(args, req.RuntimeArgs...)
	args = append(args, targetURL)
	return args
}
