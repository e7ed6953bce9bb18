package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	age := 34
	report := domain.Report{
		ID:          "1717243200000",
		Crime:       domain.Theft,
		Description: "phone snatched",
		Victim:      domain.Victim{Name: "Asha", Contact: "9876543210", Age: &age},
		Location: domain.Location{
			Address:     "Connaught Place, New Delhi",
			Coordinates: &domain.LatLng{Lat: 28.6315, Lng: 77.2167},
		},
		CreatedAt: now,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("1717243200000"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "crime", msg.Headers[0].Key)
	assert.Equal(t, []byte("Theft"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var event ReportEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "Theft", event.Crime)
	assert.Equal(t, "Connaught Place, New Delhi", event.Address)
	require.NotNil(t, event.Coordinates)
	assert.InDelta(t, 28.6315, event.Coordinates.Lat, 1e-9)
	assert.True(t, event.CreatedAt.Equal(now))
}

func TestSerializeToMessage_OmitsVictim(t *testing.T) {
	report := domain.Report{
		ID:     "1",
		Crime:  domain.Assault,
		Victim: domain.Victim{Name: "Ravi", Contact: "ravi@example.com"},
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	body := string(msg.Value)
	assert.NotContains(t, body, "Ravi")
	assert.NotContains(t, body, "ravi@example.com")
	assert.NotContains(t, body, "coordinates")
}
