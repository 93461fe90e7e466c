package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `json:"server"`
	Spotify      SpotifyConfig      `json:"spotify"`
	Ticketmaster TicketmasterConfig `json:"ticketmaster"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string `json:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// SpotifyConfig for the Spotify Web API OAuth application
type SpotifyConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// TicketmasterConfig for the Ticketmaster Discovery API
type TicketmasterConfig struct {
	APIKey string `json:"api_key"`
}

// Load reads configuration from an optional JSON file and then applies
// environment variable overrides. Environment always wins so deployed
// instances can be configured without a config file on disk.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(config)
	applyEnvOverrides(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		config.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		config.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		config.Spotify.RedirectURI = v
	}
	if v := os.Getenv("TICKETMASTER_API_KEY"); v != "" {
		config.Ticketmaster.APIKey = v
	}
}

// Validate checks that every provider credential needed to serve a search
// is present. A failure here is a deployment fault, not a caller fault.
func (c *Config) Validate() error {
	var missing []string

	if c.Spotify.ClientID == "" {
		missing = append(missing, "spotify.client_id")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify.client_secret")
	}
	if c.Spotify.RedirectURI == "" {
		missing = append(missing, "spotify.redirect_uri")
	}
	if c.Ticketmaster.APIKey == "" {
		missing = append(missing, "ticketmaster.api_key")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
