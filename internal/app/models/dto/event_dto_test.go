package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/communityevents/internal/app/models"
)

func TestFromRegistrationCarriesEventProjection(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	reg := &models.Registration{
		ID:           1,
		EventID:      2,
		UserID:       3,
		Status:       models.RegistrationStatusRegistered,
		RegisteredAt: time.Now(),
		Event: &models.Event{
			ID:        2,
			Title:     "Morning Hike",
			Slug:      "morning-hike",
			Status:    models.EventStatusUpcoming,
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		},
	}

	resp := FromRegistration(reg)
	require.NotNil(t, resp.Event)
	assert.Equal(t, int64(2), resp.Event.ID)
	assert.Equal(t, "Morning Hike", resp.Event.Title)
	assert.Equal(t, "morning-hike", resp.Event.Slug)
	assert.Equal(t, string(models.EventStatusUpcoming), resp.Event.Status)
	assert.Equal(t, start, resp.Event.StartTime)
}

func TestFromRegistrationWithoutEvent(t *testing.T) {
	resp := FromRegistration(&models.Registration{ID: 1, EventID: 2})
	assert.Nil(t, resp.Event)
}
