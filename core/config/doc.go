// Package config provides configuration management for the occupancy sync
// engine.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP trigger surface (port, API key)
//   - Log: logging level and format
//   - Booking: booking platform REST credentials and limits
//   - Calendar: calendar service REST credentials and limits
//   - Storage: object storage for the availability snapshot
//   - Sync: business timezone, horizon, feed marker/platform, schedule
//
// # Properties
//
// The ordered property list is loaded separately from PROPERTIES_JSON (or a
// file) and validated eagerly: any property missing a required field fails
// the load before any network call.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	props, err := config.LoadProperties(cfg.Sync.PropertiesPath)
package config
