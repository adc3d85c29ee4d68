package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"velograph/config"
	"velograph/db"
	"velograph/handler"
	"velograph/log"
	"velograph/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "YAML 配置文件 (可选, 环境变量优先)")
	flag.Parse()

	fmt.Println("=== VeloGraph 路径可视化服务 ===")

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	lg := log.New(true, cfg.Log.Level, cfg.Log.Dir)
	defer lg.Close()
	fmt.Printf("日志文件: %s\n", lg.LogFile)

	// 1. 初始化存储
	// 配置了 DB_HOST 时使用 PostgreSQL, 否则使用内存存储
	ctx := context.Background()
	store, err := openStore(cfg, lg)
	if err != nil {
		lg.Error("初始化存储失败", "error", err)
		fmt.Fprintf(os.Stderr, "初始化存储失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 如果存储为空, 导入 paths 目录下的路径文件
	n, err := db.ImportPathFiles(ctx, store, cfg.PathsDir, lg)
	if err != nil {
		lg.Error("导入路径失败", "error", err)
	}
	total, _ := store.CountPaths(ctx)
	fmt.Printf("路径加载完成! 本次导入: %d, 共 %d 条\n", n, total)

	// 3. 指标和 handler
	m := metrics.DefaultRegistry()
	m.SetPathsStored(total)
	if err := handler.Setup(store, cfg, m, lg); err != nil {
		lg.Error("初始化 handler 失败", "error", err)
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	// 4. 初始化 Gin 引擎并配置路由
	r := gin.Default()
	handler.RegisterRoutes(r)

	// 5. 启动服务器
	fmt.Printf("\n服务器启动中... 监听 %s\n", cfg.Server.Addr)
	fmt.Println("API:")
	fmt.Println("  - GET    /api/paths                 - 路径列表")
	fmt.Println("  - GET    /api/paths/:id             - 路径详情")
	fmt.Println("  - GET    /api/paths/:id/stats       - 统计信息")
	fmt.Println("  - GET    /api/paths/:id/geojson     - GeoJSON")
	fmt.Println("  - GET    /api/paths/:id/nearest     - 最近节点")
	fmt.Println("  - GET    /maps/:id                  - 交互地图")
	fmt.Println("  - GET    /maps/:id/image.png        - 静态图")
	fmt.Println("  - POST   /api/login                 - 管理员登录")
	fmt.Println("  - POST   /api/paths                 - 上传路径 (需要 Token)")
	fmt.Println("  - GET    /metrics                   - Prometheus 指标")
	fmt.Println("\n按 Ctrl+C 退出")

	lg.Info("server starting", "addr", cfg.Server.Addr, "paths", total, "database", cfg.Database.Enabled())
	if err := r.Run(cfg.Server.Addr); err != nil {
		lg.Error("服务器启动失败", "error", err)
		fmt.Fprintf(os.Stderr, "服务器启动失败: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, lg *log.Logger) (db.Store, error) {
	if !cfg.Database.Enabled() {
		lg.Info("未配置数据库, 使用内存存储")
		return db.NewMemoryStore(), nil
	}
	gdb, err := db.Open(cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	return db.NewGormStore(gdb), nil
}
