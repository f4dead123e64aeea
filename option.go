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

package tablecalc

import (
	"io"

	"github.com/rulego/tablecalc/functions"
	"github.com/rulego/tablecalc/logger"
)

// Option 表示对Environment默认行为的修改配置
type Option func(*Environment)

// WithLogger 设置自定义日志记录器。
// The logger also becomes the process default so the parser, resolver and
// registry log through it.
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	env := tablecalc.New(WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(e *Environment) {
		if log == nil {
			log = logger.NewDiscardLogger()
		}
		e.log = log
		logger.SetDefault(log)
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level logger.Level) Option {
	return func(e *Environment) {
		e.log.SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标, e.g. a file or os.Stderr
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return WithLogger(logger.NewLogger(level, output))
}

// WithDiscardLog 禁用所有日志输出
func WithDiscardLog() Option {
	return WithLogger(logger.NewDiscardLogger())
}

// WithRegistry uses r instead of a fresh registry holding the built-in functions.
// Functions registered through the Environment go into r.
func WithRegistry(r *functions.FunctionRegistry) Option {
	return func(e *Environment) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithBackend selects how plans are evaluated. BackendCompiled falls back to
// the interpreter for plans the expr-lang VM does not support.
func WithBackend(b Backend) Option {
	return func(e *Environment) {
		e.backend = b
	}
}

// WithParallelism evaluates rows with up to n goroutines; n <= 1 runs sequentially
func WithParallelism(n int) Option {
	return func(e *Environment) {
		e.parallelism = n
	}
}
