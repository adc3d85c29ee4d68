package model

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIDUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    NodeID
		wantErr bool
	}{
		{in: `"abc"`, want: "abc"},
		{in: `42`, want: "42"},
		{in: `9007199254740993`, want: "9007199254740993"},
		{in: `true`, wantErr: true},
		{in: `{"x":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id NodeID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPathRecordColumns(t *testing.T) {
	nodes := []Node{
		{ID: "1", Lat: 49.1, Lon: 7.1},
		{ID: "2", Lat: 49.2, Lon: 7.2},
	}
	rec := NewPathRecord("id-1", "ride", nodes)

	assert.Equal(t, "paths", rec.TableName())
	assert.Equal(t, []string{"1", "2"}, []string(rec.NodeIDs))
	assert.Equal(t, []float64{49.1, 49.2}, []float64(rec.Lats))
	assert.Equal(t, nodes, rec.Nodes())

	rec.Lons = rec.Lons[:1]
	assert.Len(t, rec.Nodes(), 1)
}

func TestLineStringFeature(t *testing.T) {
	nodes := []Node{{ID: "1", Lat: 49.1, Lon: 7.1}, {ID: "2", Lat: 49.2, Lon: 7.3}}
	f := LineStringFeature(nodes, geojson.Properties{"name": "loop"})

	data, err := json.Marshal(f)
	require.NoError(t, err)

	got, err := geojson.UnmarshalFeature(data)
	require.NoError(t, err)
	assert.Equal(t, "loop", got.Properties.MustString("name"))
	ls, ok := got.Geometry.(orb.LineString)
	require.True(t, ok, "geometry is %T", got.Geometry)
	assert.Equal(t, orb.LineString{{7.1, 49.1}, {7.3, 49.2}}, ls)
}

func TestLineStringFeatureNilProps(t *testing.T) {
	f := LineStringFeature(nil, nil)
	assert.NotNil(t, f.Properties)
	assert.Empty(t, f.Geometry.(orb.LineString))
}
