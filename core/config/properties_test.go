package config_test

import (
	"testing"

	"staysync/core/config"

	"github.com/stretchr/testify/assert"
)

const validProperty = `[
  {
    "name": "Cabin Two",
    "feed_url": "https://feeds.example.com/cabin-two.ics",
    "calendar_id": "principal@example.com",
    "mirror_calendar_id": "mirror@example.com",
    "booking_type_id": 7,
    "contact_email": "imports@example.com",
    "check_in": "14:00",
    "info": {"capacity": 2, "wifi": true}
  }
]`

func TestParseProperties_Valid(t *testing.T) {
	props, err := config.ParseProperties([]byte(validProperty))
	assert.NoError(t, err)
	assert.Len(t, props, 1)

	p := props[0]
	assert.Equal(t, "Cabin Two", p.Name)
	assert.Equal(t, 14, p.CheckInClock.Hour)
	assert.Equal(t, 0, p.CheckInClock.Minute)
	assert.Equal(t, "cabintwo", p.Slug())
}

func TestParseProperties_ExplicitSlugWins(t *testing.T) {
	raw := `[
	  {
	    "name": "Cabaña Río",
	    "feed_url": "https://feeds.example.com/rio.ics",
	    "calendar_id": "principal@example.com",
	    "booking_type_id": 9,
	    "contact_email": "imports@example.com",
	    "check_in": "15:30",
	    "info": {"slug": "rio"}
	  }
	]`

	props, err := config.ParseProperties([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, "rio", props[0].Slug())
	assert.Equal(t, config.Clock{Hour: 15, Minute: 30}, props[0].CheckInClock)
}

func TestParseProperties_SlugFoldsAccents(t *testing.T) {
	raw := `[
	  {
	    "name": "Cabaña Año",
	    "feed_url": "https://feeds.example.com/x.ics",
	    "calendar_id": "principal@example.com",
	    "booking_type_id": 9,
	    "contact_email": "imports@example.com",
	    "check_in": "14:00"
	  }
	]`

	props, err := config.ParseProperties([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, "cabanaano", props[0].Slug())
}

func TestParseProperties_MissingFieldsFail(t *testing.T) {
	cases := map[string]string{
		"name":            `[{"feed_url":"u","calendar_id":"c","booking_type_id":1,"contact_email":"e","check_in":"14:00"}]`,
		"feed_url":        `[{"name":"n","calendar_id":"c","booking_type_id":1,"contact_email":"e","check_in":"14:00"}]`,
		"calendar_id":     `[{"name":"n","feed_url":"u","booking_type_id":1,"contact_email":"e","check_in":"14:00"}]`,
		"booking_type_id": `[{"name":"n","feed_url":"u","calendar_id":"c","contact_email":"e","check_in":"14:00"}]`,
		"contact_email":   `[{"name":"n","feed_url":"u","calendar_id":"c","booking_type_id":1,"check_in":"14:00"}]`,
		"check_in":        `[{"name":"n","feed_url":"u","calendar_id":"c","booking_type_id":1,"contact_email":"e"}]`,
	}

	for field, raw := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := config.ParseProperties([]byte(raw))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestParseProperties_MirrorCalendarOptional(t *testing.T) {
	raw := `[
	  {
	    "name": "No Mirror",
	    "feed_url": "https://feeds.example.com/x.ics",
	    "calendar_id": "principal@example.com",
	    "booking_type_id": 3,
	    "contact_email": "imports@example.com",
	    "check_in": "14:00"
	  }
	]`

	props, err := config.ParseProperties([]byte(raw))
	assert.NoError(t, err)
	assert.Empty(t, props[0].MirrorCalendarID)
}

func TestParseProperties_BadCheckIn(t *testing.T) {
	raw := `[
	  {
	    "name": "Bad Clock",
	    "feed_url": "https://feeds.example.com/x.ics",
	    "calendar_id": "principal@example.com",
	    "booking_type_id": 3,
	    "contact_email": "imports@example.com",
	    "check_in": "25:99"
	  }
	]`

	_, err := config.ParseProperties([]byte(raw))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "check_in")
}

func TestParseProperties_EmptyList(t *testing.T) {
	_, err := config.ParseProperties([]byte(`[]`))
	assert.Error(t, err)
}
