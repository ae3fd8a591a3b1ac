package mirror

import (
	"regexp"
	"strings"

	"staysync/core/calendarapi"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ExtractEmails collects every email address attached to an event: declared
// participants first, then any address embedded in the description text.
func ExtractEmails(ev calendarapi.Event) []string {
	var emails []string
	for _, a := range ev.Attendees {
		if a.Email != "" {
			emails = append(emails, a.Email)
		}
	}
	emails = append(emails, emailPattern.FindAllString(ev.Description, -1)...)
	return emails
}

// FromFeed reports whether an event was created by the feed's origin
// platform. Both signals must agree: the platform name appears in the
// summary AND in at least one associated email address. Requiring both keeps
// a guest who merely mentions the platform from being misclassified.
func FromFeed(ev calendarapi.Event, platform string) bool {
	p := strings.ToLower(platform)
	if p == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(ev.Summary), p) {
		return false
	}
	for _, email := range ExtractEmails(ev) {
		if strings.Contains(strings.ToLower(email), p) {
			return true
		}
	}
	return false
}
