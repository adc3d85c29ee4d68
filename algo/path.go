package algo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"velograph/model"
	"velograph/utils"
)

// ErrEmptyPath 路径里没有任何节点
var ErrEmptyPath = errors.New("no nodes to visualize")

// Path 一条路径: 有序节点序列, 第一个是起点, 最后一个是终点
type Path struct {
	Nodes []model.Node           // 节点列表 (按路径顺序)
	Meta  map[string]interface{} // 文件里附带的元数据

	index map[model.NodeID]int // 节点 ID -> 第一次出现的位置
}

// NewPath 用节点序列创建路径
func NewPath(nodes []model.Node) *Path {
	p := &Path{
		Nodes: nodes,
		index: make(map[model.NodeID]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, ok := p.index[n.ID]; !ok {
			p.index[n.ID] = i
		}
	}
	return p
}

// LoadFromJSON 从 JSON 文件加载路径
func LoadFromJSON(filepath string) (*Path, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode 从 reader 解析路径 JSON ({"nodes": [...]})
// 节点数组可以为空, 但 nodes 字段必须存在
func Decode(r io.Reader) (*Path, error) {
	var data model.PathData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	if data.Nodes == nil {
		return nil, errors.New("解析 JSON 失败: 缺少 nodes 字段")
	}

	p := NewPath(data.Nodes)
	p.Meta = data.Meta
	return p, nil
}

// Len 节点数
func (p *Path) Len() int {
	return len(p.Nodes)
}

// Empty 是否没有节点
func (p *Path) Empty() bool {
	return len(p.Nodes) == 0
}

// Start 起点
func (p *Path) Start() (model.Node, error) {
	if p.Empty() {
		return model.Node{}, ErrEmptyPath
	}
	return p.Nodes[0], nil
}

// End 终点
func (p *Path) End() (model.Node, error) {
	if p.Empty() {
		return model.Node{}, ErrEmptyPath
	}
	return p.Nodes[len(p.Nodes)-1], nil
}

// Lats 纬度数组
func (p *Path) Lats() []float64 {
	lats := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		lats[i] = n.Lat
	}
	return lats
}

// Lons 经度数组
func (p *Path) Lons() []float64 {
	lons := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		lons[i] = n.Lon
	}
	return lons
}

// Node 根据 ID 获取节点, 同一个 ID 出现多次时返回第一次出现的节点
func (p *Path) Node(id model.NodeID) *model.Node {
	i, ok := p.index[id]
	if !ok {
		return nil
	}
	return &p.Nodes[i]
}

// FindNearestNode 找到路径上离给定坐标最近的节点, 返回节点和它在路径中的位置
// 路径为空时返回 nil, -1
func (p *Path) FindNearestNode(lat, lon float64) (*model.Node, int) {
	var nearest *model.Node
	pos := -1
	minDist := -1.0

	target := model.Point{Lat: lat, Lon: lon}
	for i := range p.Nodes {
		dist := utils.HaversineDistance(target, p.Nodes[i].Point())

		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = &p.Nodes[i]
			pos = i
		}
	}

	return nearest, pos
}
