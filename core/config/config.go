package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"staysync/core/bookingapi"
	"staysync/core/calendarapi"
	"staysync/core/logger"
	"staysync/core/server"
	"staysync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP trigger surface.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Booking holds configuration for the booking platform client.
	Booking bookingapi.Config `mapstructure:"booking"`
	// Calendar holds configuration for the calendar service client.
	Calendar calendarapi.Config `mapstructure:"calendar"`
	// Storage holds configuration for the snapshot object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Sync holds configuration for the reconciliation run itself.
	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig holds the knobs of a reconciliation run.
type SyncConfig struct {
	// Timezone is the fixed business timezone used to interpret check-in
	// times and calendar-day boundaries.
	Timezone string `mapstructure:"timezone" default:"America/Mexico_City"`
	// HorizonDays is how far ahead bookings and events are reconciled.
	HorizonDays int `mapstructure:"horizon_days" default:"365"`
	// FeedMarker is the case-insensitive substring a feed entry's label must
	// contain to count as an actual reservation.
	FeedMarker string `mapstructure:"feed_marker" default:"reserved"`
	// FeedTimeoutSeconds bounds each availability feed fetch, independently
	// of the booking API timeout.
	FeedTimeoutSeconds int `mapstructure:"feed_timeout_seconds" default:"30"`
	// FeedPlatform is the source platform's name, used by the mirror's
	// origin heuristic and in imported-booking labels.
	FeedPlatform string `mapstructure:"feed_platform" default:"airbnb"`
	// Schedule is an optional cron expression for periodic runs in serve
	// mode. Empty disables the scheduler.
	Schedule string `mapstructure:"schedule" default:""`
	// PropertiesPath optionally points at a JSON file with the property
	// list. When empty, PROPERTIES_JSON is read from the environment.
	PropertiesPath string `mapstructure:"properties_path" default:""`
}

// Location loads the configured business timezone.
func (c SyncConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sync timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists; ignore the error in production where the
	// environment is injected directly.
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. BOOKING_TOKEN -> booking.token)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if _, err := config.Sync.Location(); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
