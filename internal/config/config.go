// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file,
// a .env file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseURI holds the store connection string. mongodb:// and
	// mongodb+srv:// URIs select MongoDB, anything else PostgreSQL.
	DatabaseURI string `json:"database_uri"`

	// DatabaseName is the MongoDB database holding the collections.
	DatabaseName string `json:"database_name"`

	// LogLevel is the minimum zap level.
	LogLevel string `json:"log_level"`

	// SessionTTL bounds session lifetime. Zero keeps sessions until sign-out.
	SessionTTL Duration `json:"session_ttl"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Duration is a time.Duration read from JSON as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a Go duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// IsMongo reports whether DatabaseURI points at a MongoDB deployment.
func (o *Options) IsMongo() bool {
	return strings.HasPrefix(o.DatabaseURI, "mongodb://") ||
		strings.HasPrefix(o.DatabaseURI, "mongodb+srv://")
}

// Parse parses the command-line flags, the optional config file and the
// environment to set configuration values. A .env file in the working
// directory is loaded into the environment first; variables already set win.
func Parse() (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}
	fs.StringVar(&options.Port, "a", ":5000", "run on ip:port server")
	fs.StringVar(&options.DatabaseURI, "d", "", "store connection string")
	fs.StringVar(&options.DatabaseName, "db-name", "mywallet", "mongodb database name")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.DurationVar(&options.SessionTTL.Duration, "session-ttl", 0, "session lifetime (0 = never expire)")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to TLS private key")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if uri := getenv("MONGO_URI"); uri != "" {
		options.DatabaseURI = uri
	}
	if uri := getenv("DATABASE_URI"); uri != "" {
		options.DatabaseURI = uri
	}
	if name := getenv("DATABASE_NAME"); name != "" {
		options.DatabaseName = name
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if ttl := getenv("SESSION_TTL"); ttl != "" {
		v, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		options.SessionTTL.Duration = v
	}
	if cert := getenv("TLS_CERT"); cert != "" {
		options.TLSCert = cert
	}
	if key := getenv("TLS_KEY"); key != "" {
		options.TLSKey = key
	}

	if options.DatabaseURI == "" {
		return nil, errors.New("database uri is required (-d or DATABASE_URI)")
	}
	if options.SessionTTL.Duration < 0 {
		return nil, errors.New("session ttl must not be negative")
	}

	return options, nil
}
