package calendarapi

// EventTime is a calendar event boundary: all-day events carry Date
// (YYYY-MM-DD, exclusive end), timed events carry DateTime (RFC 3339).
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

// Value returns whichever representation the boundary carries, preferring
// the timed one.
func (t EventTime) Value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// Attendee is a calendar event participant.
type Attendee struct {
	Email string `json:"email,omitempty"`
}

// ExtendedProperties carries the event's private key/value bag.
type ExtendedProperties struct {
	Private map[string]string `json:"private,omitempty"`
}

// Event is a calendar event as the calendar service reports it.
type Event struct {
	ID                 string              `json:"id,omitempty"`
	Status             string              `json:"status,omitempty"`
	Summary            string              `json:"summary,omitempty"`
	Description        string              `json:"description,omitempty"`
	Start              EventTime           `json:"start"`
	End                EventTime           `json:"end"`
	Transparency       string              `json:"transparency,omitempty"`
	Attendees          []Attendee          `json:"attendees,omitempty"`
	ExtendedProperties *ExtendedProperties `json:"extendedProperties,omitempty"`
}

// Private returns the event's private properties bag, or nil.
func (e Event) Private() map[string]string {
	if e.ExtendedProperties == nil {
		return nil
	}
	return e.ExtendedProperties.Private
}
