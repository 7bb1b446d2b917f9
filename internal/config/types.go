package config

import "time"

// Config represents the complete nrfdash configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Polling PollingConfig `yaml:"polling"`
	Web     WebConfig     `yaml:"web"`
}

// APIConfig describes the hub's device-management API
type APIConfig struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username"`
	Timeout  time.Duration `yaml:"timeout"`
	// Password is never read from the file; it comes from NRFDASH_PASSWORD
	// for unattended login and is otherwise entered on the login form.
	Password string `yaml:"-"`
}

// PollingConfig holds the intervals of the two periodic tasks
type PollingConfig struct {
	Devices time.Duration `yaml:"devices"`
	Logs    time.Duration `yaml:"logs"`
}

// WebConfig configures the local dashboard server
type WebConfig struct {
	Listen      string `yaml:"listen"`
	ConsoleSize int    `yaml:"console_size"`
}
