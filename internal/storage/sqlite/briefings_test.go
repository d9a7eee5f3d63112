package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/skybrief/pkg/logger"
)

func newTestStorage(t *testing.T) *BriefingStorage {
	t.Helper()

	s, err := NewBriefingStorage(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAndGetLatestBriefing(t *testing.T) {
	s := newTestStorage(t)

	first := &BriefingRecord{
		Departure:   "KLAX",
		Destination: "KSFO",
		Category:    "VFR",
		Summary:     "Good conditions throughout.",
		Document:    "Decoded METAR Report: ...",
		CreatedAt:   time.Now().UTC().Add(-time.Hour).Truncate(time.Second),
	}
	_, err := s.StoreBriefing(first, nil)
	require.NoError(t, err)

	second := &BriefingRecord{
		Departure:   "KLAX",
		Destination: "KSFO",
		Category:    "IFR",
		Document:    "Decoded METAR Report: ...",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	id, err := s.StoreBriefing(second, []HazardRecord{
		{DistanceNM: 12.3, PirepRaw: "UA /OV SBA /TB MOD", Summary: "Turbulence reported: MOD", Lat: 34.4, Lon: -119.8},
		{DistanceNM: 4.2, PirepRaw: "UA /OV SMX /IC LGT", Summary: "Icing reported: LGT", Lat: 34.9, Lon: -120.4},
	})
	require.NoError(t, err)

	latest, err := s.GetLatestBriefing("KLAX", "KSFO")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID)
	assert.Equal(t, "IFR", latest.Category)
	assert.Empty(t, latest.Summary)

	hazards, err := s.GetHazards(id)
	require.NoError(t, err)
	require.Len(t, hazards, 2)
	// Ordered by distance ascending.
	assert.Equal(t, 4.2, hazards[0].DistanceNM)
	assert.Equal(t, "UA /OV SMX /IC LGT", hazards[0].PirepRaw)
}

func TestGetLatestBriefing_unknownRoute(t *testing.T) {
	s := newTestStorage(t)

	latest, err := s.GetLatestBriefing("KJFK", "KBOS")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestGetBriefings_pagination(t *testing.T) {
	s := newTestStorage(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		_, err := s.StoreBriefing(&BriefingRecord{
			Departure:   "KSEA",
			Destination: "KPDX",
			Category:    "MFR",
			Document:    "doc",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}, nil)
		require.NoError(t, err)
	}

	page, err := s.GetBriefings(2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, err := s.GetBriefings(10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}
