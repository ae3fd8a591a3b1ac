package calendarapi

// Config holds configuration for the calendar service client.
type Config struct {
	// BaseURL is the API root, e.g. "https://www.googleapis.com/calendar/v3".
	BaseURL string `mapstructure:"base_url" default:"https://www.googleapis.com/calendar/v3"`
	// Token is the bearer credential for this run.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds every HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxResults caps the number of events fetched per listing.
	MaxResults int `mapstructure:"max_results" default:"2500"`
}
