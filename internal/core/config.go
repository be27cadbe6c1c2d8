package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the reborn
// client and its associated tools.
type Config struct {
	Server struct {
		// Hostname or IP address of the game server.
		Host string `mapstructure:"host"`
		// Port on which the game server accepts connections.
		Port int `mapstructure:"port"`
		// Client version string advertised during login (e.g. "2.19").
		Version string `mapstructure:"version"`
	} `mapstructure:"server"`

	Account struct {
		Name     string `mapstructure:"name"`
		Password string `mapstructure:"password"`
		// Nickname set after a successful login. Blank leaves the server default.
		Nickname string `mapstructure:"nickname"`
	} `mapstructure:"account"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"logging"`

	Downloads struct {
		// Directory into which completed file transfers are written.
		Dir string `mapstructure:"dir"`
		// Seconds a reconstructed file stays in the in-memory cache.
		CacheTTL int `mapstructure:"cache_ttl"`
	} `mapstructure:"downloads"`

	Capture struct {
		// Record decoded packets to a database for offline analysis.
		Enabled bool `mapstructure:"enabled"`
		// Database engine for the capture store. Options: sqlite, postgres.
		Engine   string `mapstructure:"engine"`
		Filename string `mapstructure:"filename"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Name     string `mapstructure:"name"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"capture"`

	Debugging struct {
		// Log raw and decoded packets to stdout.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
		// Enable a pprof server for runtime profiling.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which the pprof server will be started if enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Address of a packet analyzer instance to which decoded packets
		// will be exported. Blank disables the exporter.
		PacketAnalyzerAddress string `mapstructure:"packet_analyzer_address"`
	} `mapstructure:"debugging"`

	baseDir string
}

const envVarPrefix = "REBORN"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) (*Config, error) {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("no config file found in path %s", configPath)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, server.host can be set using: <envVarPrefix>_SERVER_HOST
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	config.baseDir = configPath
	return config, nil
}

// QualifiedPath returns filename resolved relative to the directory from
// which the config file was loaded.
func (c *Config) QualifiedPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(c.baseDir, filename)
}

// ServerAddress returns the host:port address of the configured game server.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

const captureURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// CaptureDatabaseURL returns a postgres URL generated from the capture config values.
func (c *Config) CaptureDatabaseURL() string {
	return fmt.Sprintf(
		captureURITemplate,
		c.Capture.Host,
		c.Capture.Port,
		c.Capture.Name,
		c.Capture.Username,
		c.Capture.Password,
		c.Capture.SSLMode,
	)
}

// DownloadsDir returns the directory for completed file transfers, creating
// it if necessary.
func (c *Config) DownloadsDir() (string, error) {
	dir := c.Downloads.Dir
	if dir == "" {
		dir = c.QualifiedPath("downloads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating downloads directory: %w", err)
	}
	return dir, nil
}
