package algo

import (
	"fmt"
	"velograph/model"
	"velograph/utils"
)

// Range 闭区间 [Min, Max]
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span 区间宽度
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Stats 路径统计信息 (显示在图上的那一块)
type Stats struct {
	Nodes    int         `json:"nodes"`
	LatRange Range       `json:"lat_range"`
	LonRange Range       `json:"lon_range"`
	Center   model.Point `json:"center"`
	Length   float64     `json:"length"` // 沿路径的球面距离之和 (米)
}

// Stats 计算统计信息, 空路径返回 ErrEmptyPath
func (p *Path) Stats() (Stats, error) {
	if p.Empty() {
		return Stats{}, ErrEmptyPath
	}

	first := p.Nodes[0]
	lat := Range{Min: first.Lat, Max: first.Lat}
	lon := Range{Min: first.Lon, Max: first.Lon}
	for _, n := range p.Nodes[1:] {
		lat.Min = min(lat.Min, n.Lat)
		lat.Max = max(lat.Max, n.Lat)
		lon.Min = min(lon.Min, n.Lon)
		lon.Max = max(lon.Max, n.Lon)
	}

	return Stats{
		Nodes:    len(p.Nodes),
		LatRange: lat,
		LonRange: lon,
		Center: model.Point{
			Lat: (lat.Min + lat.Max) / 2,
			Lon: (lon.Min + lon.Max) / 2,
		},
		Length: p.Length(),
	}, nil
}

// Length 路径总长度 (米)
func (p *Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Nodes); i++ {
		total += utils.HaversineDistance(p.Nodes[i-1].Point(), p.Nodes[i].Point())
	}
	return total
}

// Text 统计信息的文本形式, 每行一项, 坐标保留 4 位小数
func (s Stats) Text() string {
	return fmt.Sprintf("Nodes: %d\nLat range: [%.4f, %.4f]\nLon range: [%.4f, %.4f]",
		s.Nodes, s.LatRange.Min, s.LatRange.Max, s.LonRange.Min, s.LonRange.Max)
}
