package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/xoundbyte/soulbase/pkg/constants"
)

// Config holds the application configuration loaded from flags, environment
// variables, .env files, and an optional config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Pipeline configuration
	RecordsDir   string
	ArtifactPath string

	// Ticketing collaborator ("owner/name" repository and API token)
	GitHubRepository string
	GitHubToken      string

	// Handle resolution
	ResolverBaseURL string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (.soulbase.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindEnvKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".soulbase")
	}

	// Missing config files are fine; everything has a default.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		RecordsDir:   viper.GetString("records_dir"),
		ArtifactPath: viper.GetString("artifact_path"),

		GitHubRepository: viper.GetString("github_repository"),
		GitHubToken:      viper.GetString("github_token"),

		ResolverBaseURL: viper.GetString("resolver_base_url"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	if config.RecordsDir == "" {
		config.RecordsDir = constants.DefaultRecordsDir
	}
	if config.ArtifactPath == "" {
		config.ArtifactPath = constants.DefaultArtifactPath
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the environment variables the CI workflow
// passes through.
func bindEnvKeys() {
	keys := []string{
		"GITHUB_REPOSITORY",
		"GITHUB_TOKEN",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
