package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	auditDir  = ".envq"
	auditFile = "audit.jsonl"
)

var (
	ErrNoAuditLog = errors.New("no audit log found")
	mu            sync.Mutex
)

// Op names a document mutation.
type Op string

const (
	OpSetKey     Op = "set_key"
	OpSetComment Op = "set_comment"
	OpSetHeader  Op = "set_header"
	OpDelKey     Op = "del_key"
	OpDelComment Op = "del_comment"
	OpDelHeader  Op = "del_header"
)

// Entry is one line of the audit log. Values and comment text are never
// recorded, only which key of which file changed.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Op        Op        `json:"op"`
	File      string    `json:"file"`
	Key       string    `json:"key,omitempty"`
	Source    string    `json:"src,omitempty"`
	SessionID string    `json:"sid,omitempty"`
	PrevHash  string    `json:"prev_hash"`
}

type EntrySummary struct {
	Timestamp string `json:"ts"`
	Op        string `json:"op"`
	File      string `json:"file"`
	Key       string `json:"key,omitempty"`
	Source    string `json:"src,omitempty"`
	SessionID string `json:"sid,omitempty"`
}

// NewSessionID returns an id grouping the records written by one invocation.
func NewSessionID() string {
	return uuid.NewString()
}

// Path returns the audit log location for workdir, or for the current
// directory when workdir is empty.
func Path(workdir string) string {
	if workdir == "" {
		workdir, _ = os.Getwd()
	}
	return filepath.Join(workdir, auditDir, auditFile)
}

func lastHash(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var lastLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}

	if lastLine == "" {
		return ""
	}

	return hashLine(lastLine)
}

func hashLine(line string) string {
	hash := sha256.Sum256([]byte(line))
	return hex.EncodeToString(hash[:])
}

// Log appends an entry for op on file to the audit log under workdir.
func Log(workdir string, op Op, file string, opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()

	path := Path(workdir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ensure audit dir: %w", err)
	}

	entry := &Entry{
		Timestamp: time.Now().UTC(),
		Op:        op,
		File:      file,
		PrevHash:  lastHash(path),
	}

	for _, opt := range opts {
		opt(entry)
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, string(b)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}

	return nil
}

type Option func(*Entry)

func WithKey(key string) Option {
	return func(e *Entry) {
		e.Key = key
	}
}

func WithSessionID(id string) Option {
	return func(e *Entry) {
		e.SessionID = id
	}
}

// WithSource records which front end made the change, e.g. "cli" or "mcp".
func WithSource(src string) Option {
	return func(e *Entry) {
		e.Source = src
	}
}

func readLines(workdir string) ([]string, error) {
	f, err := os.Open(Path(workdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoAuditLog
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return lines, nil
}

// Show returns the last lastN entries, or all of them when lastN <= 0.
func Show(workdir string, lastN int) ([]EntrySummary, error) {
	lines, err := readLines(workdir)
	if err != nil {
		return nil, err
	}

	if lastN > 0 && len(lines) > lastN {
		lines = lines[len(lines)-lastN:]
	}

	var entries []EntrySummary
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, EntrySummary{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Op:        string(e.Op),
			File:      e.File,
			Key:       e.Key,
			Source:    e.Source,
			SessionID: e.SessionID,
		})
	}

	return entries, nil
}

type VerifyResult struct {
	TotalEntries int
	Breaks       []int
}

// Verify checks that every entry's prev_hash matches the hash of the line
// before it. Breaks holds 1-based line numbers.
func Verify(workdir string) (*VerifyResult, error) {
	lines, err := readLines(workdir)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{TotalEntries: len(lines)}
	for i, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			result.Breaks = append(result.Breaks, i+1)
			continue
		}

		want := ""
		if i > 0 {
			want = hashLine(lines[i-1])
		}
		if entry.PrevHash != want {
			result.Breaks = append(result.Breaks, i+1)
		}
	}

	return result, nil
}
