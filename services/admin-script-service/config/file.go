package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig est le fichier TOML lu par adminctl. Les champs absents gardent les valeurs de Load().
type FileConfig struct {
	UsersServiceURL   string        `toml:"users_service_url"`
	TweetsServiceURL  string        `toml:"tweets_service_url"`
	FollowsServiceURL string        `toml:"follows_service_url"`
	GatewayTimeout    time.Duration `toml:"gateway_timeout"`
	Seed              uint64        `toml:"seed"`
}

// LoadFile décode path. Les clés inconnues sont refusées pour repérer les fautes de frappe.
func LoadFile(path string) (*FileConfig, error) {
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	return &fc, nil
}

// Apply surcharge cfg avec les valeurs renseignées du fichier.
func (fc *FileConfig) Apply(cfg *Config) {
	if fc.UsersServiceURL != "" {
		cfg.UsersServiceURL = fc.UsersServiceURL
	}
	if fc.TweetsServiceURL != "" {
		cfg.TweetsServiceURL = fc.TweetsServiceURL
	}
	if fc.FollowsServiceURL != "" {
		cfg.FollowsServiceURL = fc.FollowsServiceURL
	}
	if fc.GatewayTimeout > 0 {
		cfg.GatewayTimeout = fc.GatewayTimeout
	}
	if fc.Seed != 0 {
		cfg.ScriptSeed = fc.Seed
	}
}
