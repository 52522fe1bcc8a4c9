package geolite

import (
	"errors"
	"os"
	"time"
)

// Data file names, one pair per family plus the shared location table.
const (
	FileCity       = "geoip-city.dat"
	FileCity6      = "geoip-city6.dat"
	FileCityNames  = "geoip-city-names.dat"
	FileCountry    = "geoip-country.dat"
	FileCountry6   = "geoip-country6.dat"
	envDataDir     = "GEOLITE_DATA_DIR"
	defaultDataDir = "data"
)

// DataFiles - lists every file a client reads, in watch order
var DataFiles = []string{FileCity, FileCity6, FileCityNames, FileCountry, FileCountry6}

// Config - holds client settings. Use DefaultConfig and Options to build one
type Config struct {
	// DataDir is the directory of the .dat files for the default DirSource.
	DataDir string
	// Source overrides DataDir when set.
	Source Source
	// Mmap maps local files read-only instead of copying them to the heap.
	Mmap bool
	// Logger receives load and reload events.
	Logger *Logger
	// PollInterval is how often the watcher stats the data files.
	PollInterval time.Duration
	// SettleDelay is how long the files must stay unchanged before a reload fires.
	SettleDelay time.Duration
	// MinReloadInterval throttles watcher triggered reloads. Zero disables throttling.
	MinReloadInterval time.Duration
}

// DefaultConfig - returns the defaults. The settle delay of one minute gives
// a file transfer time to complete before the data is reloaded.
func DefaultConfig() Config {
	return Config{
		DataDir:      ResolveDataDir(""),
		PollInterval: 5 * time.Second,
		SettleDelay:  time.Minute,
	}
}

// Validate - checks the configuration
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("geolite: poll interval must be positive")
	}
	if c.SettleDelay < 0 {
		return errors.New("geolite: settle delay must not be negative")
	}
	if c.MinReloadInterval < 0 {
		return errors.New("geolite: min reload interval must not be negative")
	}
	if c.Source == nil && c.DataDir == "" {
		return errors.New("geolite: no data directory or source configured")
	}
	return nil
}

// Option - configures a Client
type Option func(*Config)

// WithSource - reads datasets from src instead of the data directory
func WithSource(src Source) Option {
	return func(c *Config) { c.Source = src }
}

// WithLogger - sets the logger
func WithLogger(l *Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMmap - enables read-only memory mapping of local data files
func WithMmap(enabled bool) Option {
	return func(c *Config) { c.Mmap = enabled }
}

// WithPollInterval - sets the watcher poll interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

// WithSettleDelay - sets how long files must be stable before reloading
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) { c.SettleDelay = d }
}

// WithMinReloadInterval - sets the minimum time between watcher reloads
func WithMinReloadInterval(d time.Duration) Option {
	return func(c *Config) { c.MinReloadInterval = d }
}

// ResolveDataDir - explicit dir, else $GEOLITE_DATA_DIR, else ./data
func ResolveDataDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv(envDataDir); env != "" {
		return env
	}
	return defaultDataDir
}
