package bookingapi

// Config holds configuration for the booking platform client.
type Config struct {
	// BaseURL is the API root, e.g. "https://tidycal.com/api".
	BaseURL string `mapstructure:"base_url" default:"https://tidycal.com/api"`
	// Token is the personal access token used as a bearer credential.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds every HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxPages is the pagination ceiling when listing bookings.
	MaxPages int `mapstructure:"max_pages" default:"50"`
}
