package db

import (
	"context"
	"errors"
	"fmt"
	"time"
	"velograph/config"
	"velograph/log"
	"velograph/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound 路径不存在
var ErrNotFound = errors.New("路径不存在")

// Store 路径存储
type Store interface {
	SavePath(ctx context.Context, rec *model.PathRecord) error
	GetPath(ctx context.Context, id string) (*model.PathRecord, error)
	ListPaths(ctx context.Context) ([]model.PathRecord, error)
	CountPaths(ctx context.Context) (int64, error)
}

// prepare 补全 ID 和创建时间
func prepare(rec *model.PathRecord) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
}

// Open 连接 PostgreSQL 并自动迁移表结构
// 带重试 (Docker 启动时数据库可能还没准备好)
func Open(cfg config.DatabaseConfig, lg *log.Logger) (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)
	for i := 0; i < cfg.MaxRetries; i++ {
		gdb, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		lg.Warn("等待数据库就绪", "attempt", i+1, "max", cfg.MaxRetries, "error", err)
		time.Sleep(cfg.RetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	if err := gdb.AutoMigrate(&model.PathRecord{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	lg.Info("数据库连接并初始化成功", "host", cfg.Host, "db", cfg.Name)
	return gdb, nil
}

// GormStore 基于 gorm 的存储
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) SavePath(ctx context.Context, rec *model.PathRecord) error {
	prepare(rec)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("保存路径失败: %w", err)
	}
	return nil
}

func (s *GormStore) GetPath(ctx context.Context, id string) (*model.PathRecord, error) {
	var rec model.PathRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询路径失败: %w", err)
	}
	return &rec, nil
}

// ListPaths 按创建时间倒序
func (s *GormStore) ListPaths(ctx context.Context) ([]model.PathRecord, error) {
	var recs []model.PathRecord
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("查询路径失败: %w", err)
	}
	return recs, nil
}

func (s *GormStore) CountPaths(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.PathRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("统计路径失败: %w", err)
	}
	return n, nil
}
