package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Profile holds the connection settings for one HiveCore gateway.
type Profile struct {
	Host        string `json:"host"`
	InferPort   int    `json:"infer_port"`
	ManagePort  int    `json:"manage_port"`
	ClientToken string `json:"client_token"`
	AdminToken  string `json:"admin_token"`
}

// InferURL returns the base URL of the inference API.
func (p Profile) InferURL() string {
	return fmt.Sprintf("%s:%d", p.Host, p.InferPort)
}

// ManageURL returns the base URL of the management API.
func (p Profile) ManageURL() string {
	return fmt.Sprintf("%s:%d", p.Host, p.ManagePort)
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles"`
	ActiveProfile string             `json:"active_profile"`

	currentProfile *Profile
}

// LoadConfig reads the config file, creating a default one on first run.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the active profile can reach a gateway.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.Host != ""
}

// Current returns the active profile. The zero profile is returned when none
// is configured.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return Profile{}
	}
	return *c.currentProfile
}

func getConfigPath() (string, error) {
	var configDir string

	// Use HIVEMON_HOME if set, otherwise the user's home directory.
	if hiveHome := os.Getenv("HIVEMON_HOME"); hiveHome != "" {
		configDir = hiveHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".hivemon", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": {
				Host:       "",
				InferPort:  6666,
				ManagePort: 6668,
			},
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Save writes the config back to disk.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if c.Profiles == nil {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to any available profile.
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
