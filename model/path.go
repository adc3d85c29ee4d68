package model

import (
	"time"

	"github.com/lib/pq"
)

// PathData 用于解析整个路径 JSON 文件
type PathData struct {
	Meta  map[string]interface{} `json:"meta,omitempty"` // 存版本号、来源等元数据, 原样保留
	Nodes []Node                 `json:"nodes"`
}

// PathRecord 服务端保存的一条路径
// 节点按列拆成三个数组列, 顺序即路径顺序
type PathRecord struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"index"`
	NodeIDs   pq.StringArray  `json:"node_ids" gorm:"type:text[]"`
	Lats      pq.Float64Array `json:"lats" gorm:"type:double precision[]"`
	Lons      pq.Float64Array `json:"lons" gorm:"type:double precision[]"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName 表名
func (PathRecord) TableName() string {
	return "paths"
}

// NewPathRecord 把节点序列拆成列
func NewPathRecord(id, name string, nodes []Node) PathRecord {
	rec := PathRecord{
		ID:      id,
		Name:    name,
		NodeIDs: make(pq.StringArray, len(nodes)),
		Lats:    make(pq.Float64Array, len(nodes)),
		Lons:    make(pq.Float64Array, len(nodes)),
	}
	for i, n := range nodes {
		rec.NodeIDs[i] = string(n.ID)
		rec.Lats[i] = n.Lat
		rec.Lons[i] = n.Lon
	}
	return rec
}

// Nodes 把列重新拼回节点序列
// 三个数组长度不一致时以最短的为准
func (r PathRecord) Nodes() []Node {
	n := min(len(r.NodeIDs), len(r.Lats), len(r.Lons))
	nodes := make([]Node, n)
	for i := 0; i < n; i++ {
		nodes[i] = Node{ID: NodeID(r.NodeIDs[i]), Lat: r.Lats[i], Lon: r.Lons[i]}
	}
	return nodes
}
