// Package log 给 log/slog 加上按大小轮转的 JSON 文件输出.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 写入轮转文件的 slog 日志; 所有方法都接受 nil 接收者
type Logger struct {
	*slog.Logger
	LogFile string

	out *lumberjack.Logger
}

// rotation 日志文件名和轮转策略
type rotation struct {
	file       string
	maxSizeMB  int
	maxAgeDays int
	maxBackups int
	compress   bool
}

var (
	// 服务端长期运行, 按天数清理并压缩旧文件
	serverRotation = rotation{file: "velograph-server.slog", maxSizeMB: 64, maxAgeDays: 14, compress: true}
	// 命令行工具只留一份旧文件
	cliRotation = rotation{file: "velograph.slog", maxSizeMB: 32, maxBackups: 1}
)

// DefaultDir 没有配置日志目录时使用的位置
func DefaultDir(server bool) string {
	if server {
		return "velograph-logs"
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "VeloGraph")
}

// New 创建日志; server 为 true 时使用服务端的轮转策略, dir 为空时取 DefaultDir
func New(server bool, level string, dir string) *Logger {
	rot := cliRotation
	if server {
		rot = serverRotation
	}
	if dir == "" {
		dir = DefaultDir(server)
	}

	out := &lumberjack.Logger{
		Filename:   filepath.Join(dir, rot.file),
		MaxSize:    rot.maxSizeMB,
		MaxAge:     rot.maxAgeDays,
		MaxBackups: rot.maxBackups,
		Compress:   rot.compress,
	}
	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)})),
		LogFile: out.Filename,
		out:     out,
	}

	l.Info("日志已启动",
		slog.Int("pid", os.Getpid()),
		slog.String("go", runtime.Version()),
		slog.String("os", runtime.GOOS+"/"+runtime.GOARCH))
	return l
}

// ParseLevel 解析 debug/info/warn/error (不区分大小写), 解析失败按 info 处理
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// emit 是所有输出方法的出口. nil Logger 丢弃 warn 以下的日志, 其余交给默认的 slog
func (l *Logger) emit(level slog.Level, msg string, args ...any) {
	if l == nil {
		if level >= slog.LevelWarn {
			slog.Log(context.Background(), level, msg, args...)
		}
		return
	}
	l.Logger.Log(context.Background(), level, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args...) }

func (l *Logger) Debugf(format string, args ...any) {
	l.emit(slog.LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.emit(slog.LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.emit(slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.emit(slog.LevelError, fmt.Sprintf(format, args...))
}

// With 返回带上固定字段的子日志, 与父日志共用同一个文件
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With(args...), LogFile: l.LogFile, out: l.out}
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	return l.out.Close()
}
