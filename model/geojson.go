package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineString 节点序列对应的折线, 坐标顺序为 [经度, 纬度]
func LineString(nodes []Node) orb.LineString {
	ls := make(orb.LineString, len(nodes))
	for i, n := range nodes {
		ls[i] = orb.Point{n.Lon, n.Lat}
	}
	return ls
}

// LineStringFeature 把节点序列转换成 GeoJSON LineString 要素
func LineStringFeature(nodes []Node, props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(LineString(nodes))
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}
