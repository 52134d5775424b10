package itinerary

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

func TestRenderPDF(t *testing.T) {
	it := &types.StoredItinerary{
		ID:             uuid.New(),
		Destination:    "São Paulo",
		StartDate:      "2025-06-02",
		EndDate:        "2025-06-02",
		Travellers:     2,
		Budget:         "MEDIUM",
		DailyStartTime: "08:30",
		DailyEndTime:   "22:00",
		Plan:           json.RawMessage(mondayOnly),
		CreatedAt:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	doc, err := RenderPDF(it)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	t.Run("corrupt plan", func(t *testing.T) {
		bad := *it
		bad.Plan = json.RawMessage(`[1,2]`)
		_, err := RenderPDF(&bad)
		assert.Error(t, err)
	})
}
