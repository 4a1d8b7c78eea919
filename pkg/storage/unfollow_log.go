package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// UnfollowLog is an append-only record of accounts unfollowed, one login per line
type UnfollowLog struct {
	path  string
	file  *os.File
	count int
	mu    sync.Mutex
}

// OpenUnfollowLog opens path for appending, creating it and its directory if needed
func OpenUnfollowLog(path string) (*UnfollowLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open unfollow log: %w", err)
	}

	return &UnfollowLog{path: path, file: file}, nil
}

// Append writes login followed by a newline
func (l *UnfollowLog) Append(login string) error {
	if login == "" || strings.ContainsAny(login, "\r\n") {
		return fmt.Errorf("invalid login %q", login)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return errors.New("unfollow log is closed")
	}
	if _, err := l.file.WriteString(login + "\n"); err != nil {
		return fmt.Errorf("failed to append to unfollow log: %w", err)
	}
	l.count++
	return nil
}

// Count is the number of lines appended through this handle
func (l *UnfollowLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Path returns the log file location
func (l *UnfollowLog) Path() string {
	return l.path
}

// Close flushes and closes the file
func (l *UnfollowLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadEntries returns every login recorded in the log at path, oldest first.
// A missing file yields no entries.
func ReadEntries(path string) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open unfollow log: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read unfollow log: %w", err)
	}
	return entries, nil
}
