package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTAF_baseAndChangeSegments(t *testing.T) {
	raw := "TAF KLAX 211730Z 2118/2224 25010KT P6SM SCT025 FM220200 27008KT P6SM SKC TEMPO 2204/2208 5SM BR"
	now := time.Date(2026, time.March, 21, 18, 0, 0, 0, time.UTC)

	tf := decodeTAF("klax", raw, now)

	assert.Equal(t, "KLAX", tf.Station)
	assert.Equal(t, "2026-03-21 17:30Z", tf.Issued)
	assert.Equal(t, "From 21th at 18Z to 22th at 24Z", tf.ValidPeriod)

	require.Len(t, tf.Segments, 3)

	base := tf.Segments[0]
	assert.Empty(t, base.Label)
	assert.Equal(t, []string{
		"Wind from 250° at 10 knots",
		"Visibility greater than 6 statute miles",
		"Scattered clouds (3/8 - 4/8) at 2500 ft",
	}, base.Phrases)

	fm := tf.Segments[1]
	assert.Equal(t, "From 22th at 02:00Z", fm.Label)
	assert.Contains(t, fm.Phrases, "Wind from 270° at 8 knots")
	assert.Contains(t, fm.Phrases, "Sky clear")

	tempo := tf.Segments[2]
	assert.Equal(t, "Temporary", tempo.Label)
	assert.Contains(t, tempo.Phrases, "Mist")
}

// TEMPO must open a new segment, not decode as a weather phrase, even though
// it also appears in the code dictionary.
func TestDecodeTAF_markerBeatsDictionary(t *testing.T) {
	tf := DecodeTAF("KBOS", "TAF KBOS 211730Z TEMPO 2118/2120 TS")

	require.Len(t, tf.Segments, 1)
	assert.Equal(t, "Temporary", tf.Segments[0].Label)
	assert.Equal(t, []string{"Thunderstorms"}, tf.Segments[0].Phrases)
}

func TestDecodeTAF_gustsAndProb(t *testing.T) {
	tf := DecodeTAF("KORD", "TAF KORD 211730Z 18015G28KT PROB30 2119/2121 SN")

	require.Len(t, tf.Segments, 2)
	assert.Contains(t, tf.Segments[0].Phrases, "Wind from 180° at 15 knots with gusts to 28 knots")
	assert.Equal(t, "30% probability", tf.Segments[1].Label)
	assert.Contains(t, tf.Segments[1].Phrases, "Snow")
}

func TestDecodeTAF_unknownTokensDropped(t *testing.T) {
	tf := DecodeTAF("KSEA", "TAF KSEA 211730Z ZZZZZ 25010KT QQQ")

	require.Len(t, tf.Segments, 1)
	assert.Equal(t, []string{"Wind from 250° at 10 knots"}, tf.Segments[0].Phrases)
}

func TestTAFRender(t *testing.T) {
	tf := DecodeTAF("KLAX", "TAF KLAX 211730Z 2118/2224 25010KT FM220200 27008KT")
	out := tf.Render()

	assert.Contains(t, out, "Decoded TAF Forecast:")
	assert.Contains(t, out, "- Station: KLAX")
	assert.Contains(t, out, "- Valid Period: From 21th at 18Z to 22th at 24Z")
	assert.Contains(t, out, "From 22th at 02:00Z")
}
