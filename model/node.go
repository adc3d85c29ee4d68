package model

import (
	"encoding/json"
	"fmt"
)

// Point 代表一个经纬度点 (WGS84)
type Point struct {
	Lat float64 `json:"lat"` // 纬度
	Lon float64 `json:"lon"` // 经度
}

// NodeID 节点标识
// JSON 中既可能是字符串, 也可能是整数 (OSM 导出的节点 ID 是整数), 统一按字符串保存
type NodeID string

// UnmarshalJSON 同时接受 "123" 和 123 两种写法
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("节点 ID 必须是字符串或数字: %s", data)
	}
	*id = NodeID(n.String())
	return nil
}

// Node 对应路径上的一个点 (路口、途经点)
type Node struct {
	ID  NodeID  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point 返回节点的经纬度
func (n Node) Point() Point {
	return Point{Lat: n.Lat, Lon: n.Lon}
}
