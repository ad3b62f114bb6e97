package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/docker/go-connections/nat"
	"github.com/tidwall/jsonc"
)

// Framework identifies the dev server flavour of a package.
type Framework string

const (
	FrameworkNext     Framework = "next"
	FrameworkVite     Framework = "vite"
	FrameworkWrangler Framework = "wrangler"
	FrameworkUnknown  Framework = "unknown"
)

// Default ports of each framework's dev server.
const (
	DefaultNextPort     = 3000
	DefaultVitePort     = 5173
	DefaultWranglerPort = 8787
)

var (
	portFlagPattern   = regexp.MustCompile(`(?:-p|--port)[=\s]+(\d+)`)
	vitePortPattern   = regexp.MustCompile(`port\s*:\s*(\d+)`)
	viteConfigFiles   = []string{"vite.config.ts", "vite.config.js", "vite.config.mts", "vite.config.mjs"}
	wranglerJSONCFile = "wrangler.jsonc"
	wranglerTOMLFile  = "wrangler.toml"
)

// DetectFramework classifies a package from its dev script and config files.
// Wrangler wins over Next.js, which wins over Vite.
func DetectFramework(script, dir string) Framework {
	if strings.Contains(script, "wrangler") || fileExists(dir, wranglerJSONCFile) || fileExists(dir, wranglerTOMLFile) {
		return FrameworkWrangler
	}
	if strings.Contains(script, "next") {
		return FrameworkNext
	}
	if strings.Contains(script, "vite") {
		return FrameworkVite
	}
	for _, name := range viteConfigFiles {
		if fileExists(dir, name) {
			return FrameworkVite
		}
	}
	return FrameworkUnknown
}

// DetectPort returns the port the dev server is expected to listen on, or 0
// when it cannot be determined.
func DetectPort(framework Framework, script, dir string) int {
	switch framework {
	case FrameworkNext:
		if port := portFromFlags(script); port > 0 {
			return port
		}
		return DefaultNextPort
	case FrameworkVite:
		if port := portFromViteConfig(dir); port > 0 {
			return port
		}
		return DefaultVitePort
	case FrameworkWrangler:
		if port := portFromWrangler(dir); port > 0 {
			return port
		}
		return DefaultWranglerPort
	default:
		return portFromFlags(script)
	}
}

func portFromFlags(script string) int {
	match := portFlagPattern.FindStringSubmatch(script)
	if len(match) < 2 {
		return 0
	}
	return validPort(match[1])
}

func portFromViteConfig(dir string) int {
	for _, name := range viteConfigFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		match := vitePortPattern.FindSubmatch(data)
		if len(match) < 2 {
			continue
		}
		if port := validPort(string(match[1])); port > 0 {
			return port
		}
	}
	return 0
}

type wranglerConfig struct {
	Dev struct {
		Port int `json:"port" toml:"port"`
	} `json:"dev" toml:"dev"`
}

func portFromWrangler(dir string) int {
	if data, err := os.ReadFile(filepath.Join(dir, wranglerJSONCFile)); err == nil {
		var cfg wranglerConfig
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			log.Debug("parse wrangler.jsonc", "dir", dir, "err", err)
		} else if port := validPort(strconv.Itoa(cfg.Dev.Port)); port > 0 {
			return port
		}
	}
	if data, err := os.ReadFile(filepath.Join(dir, wranglerTOMLFile)); err == nil {
		var cfg wranglerConfig
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			log.Debug("parse wrangler.toml", "dir", dir, "err", err)
		} else if port := validPort(strconv.Itoa(cfg.Dev.Port)); port > 0 {
			return port
		}
	}
	return 0
}

// validPort parses raw as a TCP port, returning 0 for anything outside
// 1-65535.
func validPort(raw string) int {
	port, err := nat.ParsePort(raw)
	if err != nil || port <= 0 {
		return 0
	}
	return port
}

func fileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
