package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink дописывает строки в текстовый лог задачи. Каждая строка — одна запись.
type Sink struct {
	path string
	mu   sync.Mutex
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Path() string { return s.path }

func (s *Sink) Append(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.TrimRight(l, "\n"))
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return f.Close()
}
