package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"velograph/algo"
	"velograph/config"
	"velograph/model"
)

// DefaultMapFile 交互地图的默认输出文件名
const DefaultMapFile = "path_map.html"

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// MapOptions 交互地图的底图设置
type MapOptions struct {
	TileURL     string
	Attribution string
}

// MapOptionsFrom 从配置里取底图
func MapOptionsFrom(rc config.RenderConfig) MapOptions {
	return MapOptions{TileURL: rc.TileURL, Attribution: rc.Attribution}
}

// mapNode 页面里用到的节点数据; Popup 是已经转义过的 HTML 片段,
// Leaflet 的 bindPopup 会把字符串按 HTML 解析, 节点 ID 不能原样拼进去
type mapNode struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

func popupHTML(n model.Node) string {
	return fmt.Sprintf("id: %s<br>lat: %.6f<br>lon: %.6f",
		template.HTMLEscapeString(string(n.ID)), n.Lat, n.Lon)
}

type mapView struct {
	Title       string
	TileURL     string
	Attribution string
	Nodes       []mapNode
	Stats       string
	Center      [2]float64
}

// HTMLFilename 文件名不以 .html 结尾时补上
func HTMLFilename(name string) string {
	if strings.HasSuffix(name, ".html") {
		return name
	}
	return name + ".html"
}

// WriteInteractive 输出嵌入 Leaflet 地图的 HTML 页面
func WriteInteractive(w io.Writer, p *algo.Path, opts MapOptions) error {
	stats, err := p.Stats()
	if err != nil {
		return err
	}

	view := mapView{
		Title:       fmt.Sprintf("VeloGraph Path Visualization (%d nodes)", stats.Nodes),
		TileURL:     opts.TileURL,
		Attribution: opts.Attribution,
		Nodes:       make([]mapNode, p.Len()),
		Stats:       stats.Text(),
		Center:      [2]float64{stats.Center.Lat, stats.Center.Lon},
	}
	for i, n := range p.Nodes {
		view.Nodes[i] = mapNode{Lat: n.Lat, Lon: n.Lon, Popup: popupHTML(n)}
	}

	if err := mapTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("生成地图页面失败: %w", err)
	}
	return nil
}

// SaveInteractive 把地图页面写入文件, 返回实际使用的文件名 (已补全 .html)
func SaveInteractive(p *algo.Path, filename string, opts MapOptions) (string, error) {
	if p.Empty() {
		return "", algo.ErrEmptyPath
	}
	filename = HTMLFilename(filename)

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := WriteInteractive(f, p, opts); err != nil {
		f.Close()
		os.Remove(filename)
		return "", err
	}
	return filename, f.Close()
}
