// Package debuglog writes an opt-in JSON-lines trace of TUI and network
// events. The TUI owns the terminal, so nothing is logged to stdout.
package debuglog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPath is the fixed log location, relative to the working directory.
const DefaultPath = "flimmer-debug.log"

// Logger appends structured entries to a file.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// Init enables the global logger when enabled is true. An empty path means
// DefaultPath. The file is truncated on every start.
func Init(enabled bool, path string) error {
	if !enabled {
		setGlobal(&Logger{})
		return nil
	}
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create debug log dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	l := &Logger{file: f, enabled: true}
	setGlobal(l)
	l.log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return nil
}

// Close flushes the end marker and closes the log file.
func Close() {
	globalMu.Lock()
	l := global
	global = nil
	globalMu.Unlock()

	if l == nil || l.file == nil {
		return
	}
	l.log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.file.Close()
	l.enabled = false
}

// Enabled reports whether entries are being written.
func Enabled() bool {
	l := current()
	return l != nil && l.enabled
}

// Event logs a named event with arbitrary fields.
func Event(name string, data map[string]any) {
	current().log(name, data)
}

// Error logs err together with what was being attempted.
func Error(context string, err error) {
	if err == nil {
		return
	}
	current().log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// KeyPress logs a key event.
func KeyPress(msg tea.KeyMsg) {
	current().log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// ViewChange logs a switch between the film list and the watch list.
func ViewChange(from, to, reason string) {
	current().log("VIEW_CHANGE", map[string]any{
		"from":   from,
		"to":     to,
		"reason": reason,
	})
}

func (l *Logger) log(event string, data map[string]any) {
	if l == nil || !l.enabled || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(l.file, "%s\n", b)
}

func current() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

func setGlobal(l *Logger) {
	globalMu.Lock()
	prev := global
	global = l
	globalMu.Unlock()
	if prev != nil && prev.file != nil && prev != l {
		_ = prev.file.Close()
	}
}
