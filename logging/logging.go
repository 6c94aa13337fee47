package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const permission = 0664

// Builder 组装根 logger：默认 stdout，可追加日志文件，可切换为控制台格式
type Builder struct {
	writer  io.Writer
	path    string
	console bool
	level   zerolog.Level
}

// Logger 持有根 logger 及其打开的日志文件
type Logger struct {
	zerolog.Logger
	file *os.File
}

func New() *Builder {
	return &Builder{writer: os.Stdout, level: zerolog.InfoLevel}
}

func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) FromBuffer(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) Console(on bool) *Builder {
	b.console = on
	return b
}

func (b *Builder) Level(level string) *Builder {
	if l, err := zerolog.ParseLevel(level); err == nil && level != "" {
		b.level = l
	}
	return b
}

func (b *Builder) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if b.console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.file = f
		w = zerolog.MultiLevelWriter(w, zerolog.SyncWriter(f))
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
