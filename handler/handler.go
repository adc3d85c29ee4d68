package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"velograph/config"
	"velograph/db"
	"velograph/log"
	"velograph/metrics"
	"velograph/model"
	"velograph/utils"

	"github.com/gin-gonic/gin"
)

// 全局对象 (在 main 中通过 Setup 初始化)
var (
	Store   db.Store
	Metrics *metrics.Registry
	Logger  *log.Logger
	Render  config.RenderConfig
)

// Setup 初始化全局对象; 配置了管理员账号时开启登录和上传
func Setup(store db.Store, cfg *config.Config, m *metrics.Registry, lg *log.Logger) error {
	Store = store
	Metrics = m
	Logger = lg
	Render = cfg.Render
	imageCache.Purge()

	admin = nil
	jwtSecret = nil
	tokenTTL = cfg.Auth.TokenTTL
	if !cfg.Auth.Enabled() {
		lg.Info("未配置管理员账号, 上传接口关闭")
		return nil
	}

	hash := cfg.Auth.PasswordHash
	if hash == "" {
		var err error
		if hash, err = utils.HashPassword(cfg.Auth.Password); err != nil {
			return fmt.Errorf("密码加密失败: %w", err)
		}
	}
	admin = &model.User{
		ID:       "user_" + cfg.Auth.Username,
		Username: cfg.Auth.Username,
		Password: hash,
	}
	jwtSecret = []byte(cfg.Auth.JWTSecret)
	return nil
}

// RegisterRoutes 配置路由
func RegisterRoutes(r *gin.Engine) {
	r.Use(CORSMiddleware(), MetricsMiddleware())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/paths")
	})

	if Metrics != nil {
		r.GET("/metrics", gin.WrapH(Metrics.Handler()))
	}

	// 地图页面
	r.GET("/maps/:id", ShowMap)
	r.GET("/maps/:id/image.png", ShowImage)

	api := r.Group("/api")
	{
		api.POST("/login", Login)

		api.GET("/paths", ListPaths)
		api.GET("/paths/:id", GetPath)
		api.GET("/paths/:id/stats", GetPathStats)
		api.GET("/paths/:id/geojson", GetPathGeoJSON)
		api.GET("/paths/:id/nearest", FindNearest)

		authorized := api.Group("/")
		authorized.Use(AuthMiddleware())
		{
			authorized.POST("/paths", UploadPath)
		}
	}
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// MetricsMiddleware 记录请求数和耗时, 路径使用路由模板避免标签爆炸
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if Metrics == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		Metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
