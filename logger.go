package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// 日志系统
// 封装 zap，按天轮转写入 logs/ 目录，格式 [2006-01-02 15:04:05][INFO][消息]
// 全局 logger 未初始化时所有调用都是空操作，测试无需准备日志目录
// ============================================================================

// LogLevel 日志级别
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// AppLogger 封装 zap logger，支持按天自动轮转
type AppLogger struct {
	mu         sync.Mutex
	zap        *zap.Logger
	currentDay string
	logDir     string
	level      LogLevel
}

// logger 全局日志实例，零值安全
var logger = &AppLogger{}

// InitLogger 初始化全局日志系统
func InitLogger(logDir string, level LogLevel) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logger = &AppLogger{
		logDir: logDir,
		level:  level,
	}

	// 立即轮转到今天的日志文件
	return logger.rotateIfNeeded()
}

// rotateIfNeeded 检查是否需要切换到新的日志文件（按天轮转）
func (l *AppLogger) rotateIfNeeded() error {
	if l.logDir == "" {
		return nil
	}

	today := time.Now().Format("2006-01-02")

	// 快速路径：同一天且 logger 已存在，无需轮转
	if l.currentDay == today && l.zap != nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 再次检查（可能其他 goroutine 已完成轮转）
	if l.currentDay == today && l.zap != nil {
		return nil
	}

	// 关闭旧 logger（刷新缓冲区）
	if l.zap != nil {
		l.zap.Sync()
	}

	logPath := filepath.Join(l.logDir, fmt.Sprintf("alpha-predator-%s.log", today))
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:    "time",
		LevelKey:   "level",
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
		// 自定义编码器：[2006-01-02 15:04:05][DEBUG]
		EncodeLevel: bracketLevelEncoder,
		EncodeTime:  bracketTimeEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(file),
		levelToZapLevel(l.level),
	)

	l.zap = zap.New(core)
	l.currentDay = today

	return nil
}

// bracketTimeEncoder 自定义时间编码器: [2006-01-02 15:04:05]
func bracketTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}

// bracketLevelEncoder 自定义级别编码器: [DEBUG]
func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// levelToZapLevel 将自定义 LogLevel 转换为 zapcore.Level
func levelToZapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarn:
		return zapcore.WarnLevel
	case LogError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ============================================================================
// 日志接口
// ============================================================================

func (l *AppLogger) log(level LogLevel, format string, args ...any) {
	// 每次写日志前检查是否需要轮转（跨天时自动切换文件）
	l.rotateIfNeeded()
	if l.zap == nil {
		return
	}

	message := "[" + fmt.Sprintf(format, args...) + "]"

	switch level {
	case LogDebug:
		l.zap.Debug(message)
	case LogInfo:
		l.zap.Info(message)
	case LogWarn:
		l.zap.Warn(message)
	case LogError:
		l.zap.Error(message)
	}
}

// Debugf DEBUG 级别日志
func (l *AppLogger) Debugf(format string, args ...any) { l.log(LogDebug, format, args...) }

// Infof INFO 级别日志
func (l *AppLogger) Infof(format string, args ...any) { l.log(LogInfo, format, args...) }

// Warnf WARN 级别日志
func (l *AppLogger) Warnf(format string, args ...any) { l.log(LogWarn, format, args...) }

// Errorf ERROR 级别日志
func (l *AppLogger) Errorf(format string, args ...any) { l.log(LogError, format, args...) }

// Sync 刷新缓冲区（应用退出时调用）
func (l *AppLogger) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.zap != nil {
		l.zap.Sync()
	}
}
