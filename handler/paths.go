package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"velograph/algo"
	"velograph/db"
	"velograph/model"
	"velograph/utils"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
)

// PathSummary 路径列表项
type PathSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
	MapURL    string    `json:"map_url"`
}

// PathResponse 单条路径
type PathResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Nodes     []model.Node `json:"nodes"`
	CreatedAt time.Time    `json:"created_at"`
}

// NearestResponse 最近节点查询结果
type NearestResponse struct {
	Node     model.Node `json:"node"`
	Index    int        `json:"index"`
	Distance float64    `json:"distance"` // 米
}

// UploadRequest 上传的路径文件, 和命令行读取的 JSON 格式相同, 另加名称
type UploadRequest struct {
	Name  string       `json:"name" binding:"required,max=200"`
	Nodes []model.Node `json:"nodes" binding:"required,min=1"`
}

func summarize(rec model.PathRecord) PathSummary {
	return PathSummary{
		ID:        rec.ID,
		Name:      rec.Name,
		Nodes:     len(rec.NodeIDs),
		CreatedAt: rec.CreatedAt,
		MapURL:    "/maps/" + rec.ID,
	}
}

// loadPath 根据 URL 中的 :id 读取路径, 失败时已经写好响应
func loadPath(c *gin.Context) (*model.PathRecord, *algo.Path, bool) {
	if Store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "存储未初始化"})
		return nil, nil, false
	}

	rec, err := Store.GetPath(c.Request.Context(), c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "路径不存在"})
		return nil, nil, false
	}
	if err != nil {
		Logger.Error("读取路径失败", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取路径失败"})
		return nil, nil, false
	}
	return rec, algo.NewPath(rec.Nodes()), true
}

// ListPaths 获取所有路径
func ListPaths(c *gin.Context) {
	if Store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "存储未初始化"})
		return
	}

	recs, err := Store.ListPaths(c.Request.Context())
	if err != nil {
		Logger.Error("查询路径失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询路径失败"})
		return
	}

	paths := make([]PathSummary, 0, len(recs))
	for _, rec := range recs {
		paths = append(paths, summarize(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(paths),
		"paths": paths,
	})
}

// GetPath 根据 ID 获取路径
func GetPath(c *gin.Context) {
	rec, p, ok := loadPath(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, PathResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Nodes:     p.Nodes,
		CreatedAt: rec.CreatedAt,
	})
}

// GetPathStats 路径统计信息 (经纬度范围、中心、长度)
func GetPathStats(c *gin.Context) {
	_, p, ok := loadPath(c)
	if !ok {
		return
	}

	stats, err := p.Stats()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPathGeoJSON 以 GeoJSON LineString 输出路径
func GetPathGeoJSON(c *gin.Context) {
	rec, p, ok := loadPath(c)
	if !ok {
		return
	}

	feature := model.LineStringFeature(p.Nodes, geojson.Properties{
		"id":    rec.ID,
		"name":  rec.Name,
		"nodes": p.Len(),
	})
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, feature)
}

// FindNearest 找到路径上离给定坐标最近的节点
func FindNearest(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat 和 lon 必须是数字"})
		return
	}

	_, p, ok := loadPath(c)
	if !ok {
		return
	}

	node, idx := p.FindNearestNode(lat, lon)
	if node == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": algo.ErrEmptyPath.Error()})
		return
	}

	c.JSON(http.StatusOK, NearestResponse{
		Node:     *node,
		Index:    idx,
		Distance: distanceTo(*node, lat, lon),
	})
}

// UploadPath 上传一条路径 (需要登录)
func UploadPath(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	rec := model.NewPathRecord("", req.Name, req.Nodes)
	if err := Store.SavePath(c.Request.Context(), &rec); err != nil {
		Logger.Error("保存路径失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存路径失败"})
		return
	}
	refreshPathsGauge(c)

	Logger.Info("上传路径", "id", rec.ID, "name", rec.Name, "nodes", len(req.Nodes), "username", c.GetString("username"))
	c.JSON(http.StatusCreated, summarize(rec))
}

func refreshPathsGauge(c *gin.Context) {
	if Metrics == nil {
		return
	}
	if n, err := Store.CountPaths(c.Request.Context()); err == nil {
		Metrics.SetPathsStored(n)
	}
}

func distanceTo(n model.Node, lat, lon float64) float64 {
	return utils.HaversineDistance(n.Point(), model.Point{Lat: lat, Lon: lon})
}
