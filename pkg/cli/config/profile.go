package config

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// ProfilePath is looked up under the XDG config directories
const ProfilePath = "pagecap/config.toml"

// Profile is the TOML configuration file. Values in it are overridden by
// flags and environment variables.
type Profile struct {
	Browser struct {
		Path string `toml:"path"`
	} `toml:"browser"`

	Capture struct {
		Timeout         string   `toml:"timeout"`
		ToolDir         string   `toml:"tool_dir"`
		LoginIndicators []string `toml:"login_indicators"`
		ExtraArgs       []string `toml:"extra_args"`
	} `toml:"capture"`

	Archive struct {
		Bucket string `toml:"bucket"`
		Prefix string `toml:"prefix"`
	} `toml:"archive"`

	Notify struct {
		SlackWebhookURL string `toml:"slack_webhook_url" masq:"secret"`
	} `toml:"notify"`
}

// LoadProfile reads path. An empty path searches the XDG config
// directories, and finding nothing there yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(ProfilePath)
		if err != nil {
			return &Profile{}, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var profile Profile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	return &profile, nil
}
