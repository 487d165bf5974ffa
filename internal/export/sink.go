package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
)

// DirSink пишет файлы в каталог и копирует текст в системный буфер обмена.
type DirSink struct {
	Dir string
}

// NewDirSink создает каталог (если нужно) и возвращает sink поверх него.
func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога %s: %w", dir, err)
	}
	return &DirSink{Dir: dir}, nil
}

func (s *DirSink) WriteFile(name, _ string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, filepath.Base(name)), data, 0o644)
}

func (s *DirSink) SetClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("системный буфер обмена недоступен")
	}
	return clipboard.WriteAll(text)
}

// MemorySink запоминает последний экспорт. Используется HTTP API, где
// файл уходит клиенту в ответе, а буфер обмена заполняет браузер.
type MemorySink struct {
	mu            sync.Mutex
	Name          string
	ContentType   string
	Data          []byte
	ClipboardText string
}

func (s *MemorySink) WriteFile(name, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Name, s.ContentType = name, contentType
	s.Data = append([]byte(nil), data...)
	return nil
}

func (s *MemorySink) SetClipboard(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClipboardText = text
	return nil
}
