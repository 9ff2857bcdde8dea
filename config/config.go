package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
)

// config structure
type Config struct {
	Github GithubConfig `mapstructure:"GITHUB"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Output OutputConfig `mapstructure:"OUTPUT"`
	API    APIConfig    `mapstructure:"API"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
}

type GithubConfig struct {
	Token string `mapstructure:"Token"` // empty = unauthenticated client (60 requests per hour)
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type OutputConfig struct {
	Directory string `mapstructure:"Directory"`
}

type APIConfig struct {
	Enabled    bool   `mapstructure:"Enabled"`
	ListenPort string `mapstructure:"ListenPort"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

// Load will read the config file next to the binary or in the working directory
// a missing config file is not an error for a CLI run: defaults are used
func Load() (*Config, error) {
	cfg := GetDefault()

	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		} else {
			configFilePath = "config/config.toml"
		}
	}

	// load default and config file content
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		Github: GithubConfig{
			Token: "",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Output: OutputConfig{
			Directory: "output",
		},
		API: APIConfig{
			Enabled:    false,
			ListenPort: "5000",
		},
		Logs: LogsConfig{
			Level:            "info",
			OutputLogsAsJSON: false,
		},
	}
}
