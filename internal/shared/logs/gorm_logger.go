package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"

	"Pandemic/modules/kit/logx"
)

const maxSQLLen = 512

// GormLogger 把 GORM 日志接到 logx；ctx 里的 trace_id/game_id 会带进每条 SQL 日志。
type GormLogger struct {
	level         glogger.LogLevel
	slowThreshold time.Duration
	sink          func() logx.Logger
}

func NewGormLogger(level glogger.LogLevel, slowThreshold time.Duration) glogger.Interface {
	return NewGormLoggerWith(L, level, slowThreshold)
}

// NewGormLoggerWith 指定输出目标，sink 每次调用时取，日志重新 Init 后也能跟上。
func NewGormLoggerWith(sink func() logx.Logger, level glogger.LogLevel, slowThreshold time.Duration) glogger.Interface {
	if sink == nil {
		sink = logx.Nop
	}
	return &GormLogger{level: level, slowThreshold: slowThreshold, sink: sink}
}

func (l *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Info {
		l.logger(ctx).Info("gorm: " + fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Warn {
		l.logger(ctx).Warn("gorm: " + fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Error {
		l.logger(ctx).Error("gorm: " + fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold
	failed := err != nil && !errors.Is(err, glogger.ErrRecordNotFound)
	if !failed && !slow && l.level < glogger.Info {
		return
	}

	sql, rows := fc()
	if len(sql) > maxSQLLen {
		sql = sql[:maxSQLLen] + "..."
	}
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	log := l.logger(ctx)
	switch {
	case failed:
		log.Error("gorm trace error", append(fields, zap.Error(err))...)
	case slow:
		log.Warn("gorm slow query", fields...)
	default:
		log.Debug("gorm trace", fields...)
	}
}

func (l *GormLogger) logger(ctx context.Context) logx.Logger {
	return l.sink().WithContext(ctx)
}
