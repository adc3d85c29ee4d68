package algo

import (
	"math"
	"strings"
	"testing"
	"velograph/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRanges(t *testing.T) {
	p, err := Decode(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	s, err := p.Stats()
	require.NoError(t, err)

	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, Range{Min: 49.2566, Max: 49.2591}, s.LatRange)
	assert.Equal(t, Range{Min: 7.0432, Max: 7.0470}, s.LonRange)
	assert.InDelta(t, 49.25785, s.Center.Lat, 1e-9)
	assert.InDelta(t, 7.0451, s.Center.Lon, 1e-9)
	assert.InDelta(t, 0.0025, s.LatRange.Span(), 1e-9)
}

func TestStatsSingleNode(t *testing.T) {
	p := NewPath([]model.Node{{ID: "x", Lat: -33.8688, Lon: 151.2093}})

	s, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, Range{Min: -33.8688, Max: -33.8688}, s.LatRange)
	assert.Equal(t, Range{Min: 151.2093, Max: 151.2093}, s.LonRange)
	assert.Zero(t, s.Length)
}

func TestLength(t *testing.T) {
	// 赤道上经度相差 1 度约 111.32 km
	p := NewPath([]model.Node{
		{ID: "1", Lat: 0, Lon: 0},
		{ID: "2", Lat: 0, Lon: 0.5},
		{ID: "3", Lat: 0, Lon: 1},
	})
	want := 6378137.0 * math.Pi / 180
	assert.InDelta(t, want, p.Length(), 1e-6)
}

func TestStatsText(t *testing.T) {
	s := Stats{
		Nodes:    3,
		LatRange: Range{Min: 49.25721, Max: 49.25999},
		LonRange: Range{Min: -7.1, Max: 7.04588},
	}
	assert.Equal(t, "Nodes: 3\nLat range: [49.2572, 49.2600]\nLon range: [-7.1000, 7.0459]", s.Text())
}
