package config

import (
	_ "embed"
	"path"

	"github.com/adrg/xdg"
)

const appName = "qb-prompt"

// DefaultSource names the embedded configuration in logs and diagnostics.
const DefaultSource = "<embedded default>"

//go:embed default.json
var defaultConfig []byte

// Default returns the embedded sample configuration.
func Default() (*Config, error) {
	return Parse(defaultConfig, FormatJSON)
}

// DefaultJSON returns the raw embedded sample configuration.
func DefaultJSON() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Resolve loads the configuration named on the command line. An empty
// argument or "-" selects the first qb-prompt/config.{json,toml,yaml} found
// in the XDG config directories, falling back to the embedded default. The
// returned source is the file that was read.
func Resolve(arg string) (*Config, string, error) {
	if arg != "" && arg != "-" {
		cfg, err := Load(arg)
		return cfg, arg, err
	}

	for _, name := range []string{"config.json", "config.toml", "config.yaml", "config.yml"} {
		found, err := xdg.SearchConfigFile(path.Join(appName, name))
		if err != nil {
			continue
		}
		cfg, err := Load(found)
		return cfg, found, err
	}

	cfg, err := Default()
	return cfg, DefaultSource, err
}
