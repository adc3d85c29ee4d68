package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"velograph/algo"
	"velograph/log"
	"velograph/model"
)

// ImportPathFiles 存储为空时, 把 dir 下的 *.json 路径文件导入存储
// 文件名 (去掉扩展名) 作为路径名称; 空路径或解析失败的文件跳过并记录警告
func ImportPathFiles(ctx context.Context, store Store, dir string, lg *log.Logger) (int, error) {
	if dir == "" {
		return 0, nil
	}

	count, err := store.CountPaths(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		lg.Info("存储非空, 跳过导入", "paths", count)
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("扫描目录失败: %w", err)
	}
	if len(files) == 0 {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			lg.Warn("路径目录不存在", "dir", dir)
		}
		return 0, nil
	}

	imported := 0
	for _, file := range files {
		p, err := algo.LoadFromJSON(file)
		if err != nil {
			lg.Warn("导入路径文件失败", "file", file, "error", err)
			continue
		}
		if p.Empty() {
			lg.Warn("路径文件没有节点, 跳过", "file", file)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		rec := model.NewPathRecord("", name, p.Nodes)
		if err := store.SavePath(ctx, &rec); err != nil {
			return imported, err
		}
		imported++
		lg.Info("导入路径", "file", file, "id", rec.ID, "nodes", p.Len())
	}
	return imported, nil
}
