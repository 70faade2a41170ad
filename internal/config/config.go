package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	S3            S3Config           `mapstructure:"s3"`
	Photos        PhotosConfig       `mapstructure:"photos"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Jobs          JobsConfig         `mapstructure:"jobs"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	ReleaseMode bool   `mapstructure:"release_mode"`
}

// DatabaseConfig selects the entity store. Driver is "mongo" or "memory";
// the memory store keeps everything in process and loses it on restart.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// S3Config points at the bucket holding photos. An empty BucketName with the
// memory driver keeps photos in process as well.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type PhotosConfig struct {
	MaxUploadMB   int64         `mapstructure:"max_upload_mb"`
	MaxPixels     int64         `mapstructure:"max_pixels"`
	ThumbnailSize int           `mapstructure:"thumbnail_size"`
	URLExpiry     time.Duration `mapstructure:"url_expiry"`
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (p PhotosConfig) MaxUploadBytes() int64 {
	return p.MaxUploadMB << 20
}

type NotificationConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// JobsConfig controls the notification sweep and cleanup triggers. The HTTP
// trigger endpoints exist only when TokenSecret is set; the in-process cron
// runs only when Enabled.
type JobsConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	SweepCron   string        `mapstructure:"sweep_cron"`
	CleanupCron string        `mapstructure:"cleanup_cron"`
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. database.uri -> DATABASE_URI
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.release_mode", false)
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "plants_manager")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("photos.max_upload_mb", 10)
	v.SetDefault("photos.max_pixels", 89478485)
	v.SetDefault("photos.thumbnail_size", 300)
	v.SetDefault("photos.url_expiry", "15m")
	v.SetDefault("notifications.retention_days", 30)
	v.SetDefault("jobs.enabled", false)
	v.SetDefault("jobs.sweep_cron", "0 8 * * *")
	v.SetDefault("jobs.cleanup_cron", "0 2 * * 0")
	v.SetDefault("jobs.token_secret", "")
	v.SetDefault("jobs.token_ttl", "24h")

	err = v.ReadInConfig()
	// A missing file is fine: defaults and env vars are enough to run.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}
