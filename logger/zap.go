/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger forwards to a zap SugaredLogger; the level gate sits in front of
// zap's own so SetLevel works the same way as for the default logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewZapLogger adapts z to Logger. The returned logger starts at level.
func NewZapLogger(z *zap.Logger, level Level) Logger {
	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	core := z.Core()
	gated := zap.New(&levelGate{Core: core, level: atom}, zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{sugar: gated.Sugar(), level: atom}
}

// NewJSONLogger builds a production JSON zap logger writing to stderr
func NewJSONLogger(level Level) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z, level), nil
}

func (l *zapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(toZapLevel(level))
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		// above every level zap emits through Errorf
		return zapcore.FatalLevel
	}
}

// levelGate wraps a core with an adjustable minimum level
type levelGate struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (g *levelGate) Enabled(lvl zapcore.Level) bool {
	return g.level.Enabled(lvl) && g.Core.Enabled(lvl)
}

func (g *levelGate) With(fields []zapcore.Field) zapcore.Core {
	return &levelGate{Core: g.Core.With(fields), level: g.level}
}

func (g *levelGate) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if g.Enabled(entry.Level) {
		return ce.AddCore(entry, g)
	}
	return ce
}
