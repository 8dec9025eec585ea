package commands

import (
	"errors"
	"os"
	"time"

	"tsb-banking/lib/configutil"
	"tsb-banking/lib/scrapers/tsb"

	"dario.cat/mergo"
)

type Config struct {
	BaseUrl             string `json:"base_url"`
	CookieDomain        string `json:"cookie_domain"`
	CredentialsFile     string `json:"credentials_file"`
	DebugDir            string `json:"debug_dir"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	DetectRejectedLogin bool   `json:"detect_rejected_login"`
	CloudflareBypass    *bool  `json:"cloudflare_bypass"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl:         tsb.DefaultBaseUrl,
		CookieDomain:    tsb.DefaultCookieDomain,
		CredentialsFile: "creds.txt",
		TimeoutSeconds:  30,
	}
}

// readConfig overlays the config file (if any) on the defaults.
func readConfig(path string) (Config, error) {
	cfg := defaultConfig()

	fromFile, err := configutil.ReadRecursively[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	err = mergo.Merge(&cfg, fromFile, mergo.WithOverride)
	return cfg, err
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) UseCloudflareBypass() bool {
	return c.CloudflareBypass == nil || *c.CloudflareBypass
}
