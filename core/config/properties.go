package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// PropertiesEnvVar is the environment variable holding the property list as
// a JSON array.
const PropertiesEnvVar = "PROPERTIES_JSON"

// Clock is a local wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// Info is the static descriptive metadata a property exposes in the
// availability snapshot. None of it participates in reconciliation.
type Info struct {
	Slug               string   `json:"slug,omitempty"`
	Capacity           int      `json:"capacity,omitempty"`
	Beds               []string `json:"beds,omitempty"`
	Description        string   `json:"description,omitempty"`
	BookingURL         string   `json:"booking_url,omitempty"`
	Wifi               bool     `json:"wifi,omitempty"`
	HasKitchen         bool     `json:"has_kitchen,omitempty"`
	HasPrivateBathroom bool     `json:"has_private_bathroom,omitempty"`
	HasAC              bool     `json:"has_ac,omitempty"`
}

// Property is one rental unit's fully-validated configuration. Every field
// required by reconciliation is checked at load time so a run never fails
// halfway through on a missing value.
type Property struct {
	// Name is the display name.
	Name string `json:"name"`
	// FeedURL is the availability feed (iCal) endpoint.
	FeedURL string `json:"feed_url"`
	// CalendarID is the principal calendar the booking platform writes to.
	CalendarID string `json:"calendar_id"`
	// MirrorCalendarID is the optional calendar that signals occupancy back
	// to the feed's origin platform. Empty skips mirroring.
	MirrorCalendarID string `json:"mirror_calendar_id,omitempty"`
	// BookingTypeID scopes this property's bookings on the platform.
	BookingTypeID int `json:"booking_type_id"`
	// ContactEmail is the imported-contact identity tagging engine-managed
	// bookings.
	ContactEmail string `json:"contact_email"`
	// CheckIn is the local check-in time as HH:MM.
	CheckIn string `json:"check_in"`
	// Info carries snapshot-only descriptive metadata.
	Info Info `json:"info,omitempty"`

	// CheckInClock is CheckIn parsed during validation.
	CheckInClock Clock `json:"-"`
}

// Slug returns the property's stable identifier: the configured slug, or the
// display name lowercased with spaces stripped and Spanish accents folded.
func (p Property) Slug() string {
	if p.Info.Slug != "" {
		return p.Info.Slug
	}
	return slugify(p.Name)
}

var slugReplacer = strings.NewReplacer(
	" ", "",
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ñ", "n",
	"ü", "u",
)

func slugify(name string) string {
	return slugReplacer.Replace(strings.ToLower(name))
}

// LoadProperties reads the property list from PROPERTIES_JSON, or from the
// file at path when the variable is unset and a path is configured.
// Validation is eager and complete: any missing required field fails the
// load before any network call is made.
func LoadProperties(path string) ([]Property, error) {
	raw := os.Getenv(PropertiesEnvVar)
	if raw == "" && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read properties file %s: %w", path, err)
		}
		raw = string(data)
	}
	if raw == "" {
		return nil, fmt.Errorf("missing %s environment variable", PropertiesEnvVar)
	}
	return ParseProperties([]byte(raw))
}

// ParseProperties unmarshals and validates a JSON property list.
func ParseProperties(data []byte) ([]Property, error) {
	var props []Property
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("properties list is empty")
	}

	for i := range props {
		if err := validateProperty(&props[i]); err != nil {
			return nil, fmt.Errorf("property #%d (%q): %w", i, props[i].Name, err)
		}
	}
	return props, nil
}

func validateProperty(p *Property) error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.FeedURL == "" {
		missing = append(missing, "feed_url")
	}
	if p.CalendarID == "" {
		missing = append(missing, "calendar_id")
	}
	if p.BookingTypeID == 0 {
		missing = append(missing, "booking_type_id")
	}
	if p.ContactEmail == "" {
		missing = append(missing, "contact_email")
	}
	if p.CheckIn == "" {
		missing = append(missing, "check_in")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	clock, err := parseClock(p.CheckIn)
	if err != nil {
		return fmt.Errorf("invalid check_in %q: %w", p.CheckIn, err)
	}
	p.CheckInClock = clock
	return nil
}

func parseClock(v string) (Clock, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return Clock{}, err
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}
