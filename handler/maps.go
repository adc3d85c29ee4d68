package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
	"velograph/render"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

// 已保存的路径不会再修改, 生成的 PNG 按路径 ID 缓存
var imageCache = newImageCache(64)

func newImageCache(size int) *lru.Cache[string, []byte] {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		panic(fmt.Sprintf("创建图片缓存失败: %v", err))
	}
	return c
}

// ShowMap 路径的交互地图页面
func ShowMap(c *gin.Context) {
	_, p, ok := loadPath(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	start := time.Now()
	err := render.WriteInteractive(&buf, p, render.MapOptionsFrom(Render))
	recordRender("interactive", start, err)
	if err != nil {
		Logger.Error("生成地图失败", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成地图失败"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ShowImage 路径的静态 PNG 图
func ShowImage(c *gin.Context) {
	rec, p, ok := loadPath(c)
	if !ok {
		return
	}
	if data, ok := imageCache.Get(rec.ID); ok {
		c.Data(http.StatusOK, "image/png", data)
		return
	}

	var buf bytes.Buffer
	start := time.Now()
	err := render.WriteStaticTo(&buf, p, "png", render.StaticOptionsFrom(Render))
	recordRender("static", start, err)
	if err != nil {
		Logger.Error("生成图片失败", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成图片失败"})
		return
	}

	imageCache.Add(rec.ID, buf.Bytes())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func recordRender(kind string, start time.Time, err error) {
	if Metrics != nil {
		Metrics.RecordRender(kind, time.Since(start), err)
	}
}
