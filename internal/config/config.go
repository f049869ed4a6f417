package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	HealthStore HealthStoreConfig `mapstructure:"health_store"`
	S3          S3Config          `mapstructure:"s3"`
	Companion   CompanionConfig   `mapstructure:"companion"`
	Coaches     CoachConfig       `mapstructure:"coaches"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// HealthStoreConfig locates the embedded health-sample database. An install
// can disable the store entirely, in which case the app runs against the
// persisted store alone.
type HealthStoreConfig struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// CompanionConfig describes the paired watch device's sync endpoint. An
// empty endpoint means no device is paired and pushes are dropped.
type CompanionConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CoachConfig locates the bundled coach catalog CSV.
type CoachConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Use replacer for nested keys e.g. server.address -> SERVER_ADDRESS
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "swimcraft")
	viper.SetDefault("health_store.path", "data/healthstore")
	viper.SetDefault("health_store.disabled", false)
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("companion.timeout", "5s")
	viper.SetDefault("coaches.catalog_path", "coaches.csv")

	err = viper.ReadInConfig()
	// A missing config file is fine; defaults and env vars carry the day.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
