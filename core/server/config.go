package server

// Config holds configuration for the HTTP trigger surface.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to trigger a sync run.
	// An empty key disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
}
