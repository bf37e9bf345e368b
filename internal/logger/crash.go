package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash logs relative to the data dir.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10

	maxInputLen = 500
)

// crashState is what a crash report knows about the session.
type crashState struct {
	mu        sync.RWMutex
	fs        afero.Fs
	basePath  string
	version   string
	command   string
	lastInput string
}

var crash = &crashState{fs: afero.NewOsFs()}

// SetBasePath sets the data directory crash logs are written under.
func SetBasePath(path string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.version = version
}

// SetCommand records the command being executed.
func SetCommand(cmd string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.command = cmd
}

// SetLastInput records the last task text the user submitted.
func SetLastInput(input string) {
	input = strings.TrimSpace(input)
	if len(input) > maxInputLen {
		cut := maxInputLen
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		input = input[:cut] + "... [truncated]"
	}
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.lastInput = input
}

// CrashReport is one recovered panic.
type CrashReport struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	LastInput  string
	GoVersion  string
	OS         string
	Arch       string
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	report := newCrashReport(r)
	path, err := writeCrashReport(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, report.StackTrace)
		os.Exit(1)
	}
	printCrashNotice(os.Stderr, path)
	os.Exit(1)
}

func printCrashNotice(w io.Writer, path string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "todowing hit an unexpected error and had to stop.")
	fmt.Fprintln(w, "A crash log has been saved to:")
	fmt.Fprintf(w, "  %s\n\n", path)
}

func newCrashReport(panicValue any) CrashReport {
	crash.mu.RLock()
	defer crash.mu.RUnlock()

	return CrashReport{
		Timestamp:  time.Now(),
		Version:    crash.version,
		Command:    crash.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  crash.lastInput,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashReport stores the report and prunes old ones. It returns the path written.
func writeCrashReport(report CrashReport) (string, error) {
	dir := crashLogDir()
	if err := crash.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	path := filepath.Join(dir, crashLogName(report.Timestamp))
	if err := afero.WriteFile(crash.fs, path, []byte(formatCrashReport(report)), 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}

	if err := pruneCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	return path, nil
}

func crashLogDir() string {
	crash.mu.RLock()
	basePath := crash.basePath
	crash.mu.RUnlock()

	if basePath == "" {
		basePath = ".todowing"
	}
	return filepath.Join(basePath, CrashLogDir)
}

func crashLogName(t time.Time) string {
	return fmt.Sprintf("crash_%s.log", t.Format("20060102_150405.000"))
}

func formatCrashReport(r CrashReport) string {
	rule := strings.Repeat("-", 80) + "\n"
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString("TODOWING CRASH LOG\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	fmt.Fprintf(&sb, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", r.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", r.Command)
	fmt.Fprintf(&sb, "Go:        %s\n", r.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch:   %s/%s\n", r.OS, r.Arch)

	section := func(title, body string) {
		sb.WriteString("\n" + rule + title + "\n" + rule)
		sb.WriteString(strings.TrimRight(body, "\n") + "\n")
	}
	section("PANIC VALUE", r.PanicValue)
	section("STACK TRACE", r.StackTrace)
	if r.LastInput != "" {
		section("LAST USER INPUT", r.LastInput)
	}

	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	sb.WriteString("END OF CRASH LOG\n")
	return sb.String()
}

func isCrashLog(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".log")
}

// pruneCrashLogs keeps only the MaxCrashLogs newest reports. Names sort by time.
func pruneCrashLogs(dir string) error {
	logs, err := crashLogNames(dir)
	if err != nil || len(logs) <= MaxCrashLogs {
		return err
	}
	for _, name := range logs[:len(logs)-MaxCrashLogs] {
		if err := crash.fs.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}

func crashLogNames(dir string) ([]string, error) {
	entries, err := afero.ReadDir(crash.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isCrashLog(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ListCrashLogs returns the paths of stored crash logs, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := crashLogDir()
	names, err := crashLogNames(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
