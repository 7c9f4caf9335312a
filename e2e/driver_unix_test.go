//go:build e2e && unix

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/creack/pty"
)

const ringSize = 1 << 20 // 1 MiB of scrollback
var binPath = "combobox_e2e"

// Key sequences as a terminal sends them
const (
	KeyEnter = "\r"
	KeyTab   = "\t"
	KeyEsc   = "\x1b"
	KeyCtrlC = "\x03"
	KeyUp    = "\x1b[A"
	KeyDown  = "\x1b[B"
)

// ANSI escape sequence regex for normalization - covers CSI, OSC, charset, keypad modes
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`, // carriage returns
)

// Picker drives the combobox binary through a PTY
type Picker struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string
	exited    chan error

	// Ring buffer for continuous output capture
	mu   sync.Mutex
	buf  []byte
	head int
	full bool
}

// NewPicker creates a driver with its own workspace directory
func NewPicker(t *testing.T) *Picker {
	t.Helper()
	p := &Picker{
		t:         t,
		buf:       make([]byte, ringSize),
		workspace: t.TempDir(),
	}
	t.Cleanup(p.Cleanup)
	return p
}

// WriteFile writes a file into the workspace and returns its path
func (p *Picker) WriteFile(name, content string) string {
	p.t.Helper()
	path := filepath.Join(p.workspace, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// Path returns a path inside the workspace
func (p *Picker) Path(name string) string {
	return filepath.Join(p.workspace, name)
}

func (p *Picker) env() []string {
	return append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+p.workspace,            // isolate $HOME
		"XDG_CONFIG_HOME="+p.workspace, // isolate the config file
		"COMBOBOX_E2E_TEST=1",
	)
}

// Run executes a non-interactive subcommand and returns its combined output
func (p *Picker) Run(args ...string) (string, error) {
	p.t.Helper()
	cmd := exec.Command(binPath, append(args, "--log", p.Path("combobox.log"))...)
	cmd.Env = p.env()
	cmd.Dir = p.workspace
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Start launches the picker with args in a PTY
func (p *Picker) Start(args ...string) error {
	p.cmd = exec.Command(binPath, append(args, "--log", p.Path("combobox.log"))...)
	p.cmd.Env = p.env()
	p.cmd.Dir = p.workspace

	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}

	p.pty = ptyFile
	p.tty = tty
	p.cmd.Stdout = tty
	p.cmd.Stdin = tty
	p.cmd.Stderr = tty

	// Set terminal size
	ws := struct {
		Row uint16
		Col uint16
		X   uint16
		Y   uint16
	}{30, 100, 0, 0}
	syscall.Syscall(syscall.SYS_IOCTL, ptyFile.Fd(), uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&ws)))

	if err := p.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	p.exited = make(chan error, 1)
	go func() {
		p.exited <- p.cmd.Wait()
	}()

	p.startReader()
	return nil
}

// startReader copies PTY output into the ring buffer until the PTY closes
func (p *Picker) startReader() {
	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := p.pty.Read(buf)
			if n > 0 {
				p.mu.Lock()
				for i := 0; i < n; i++ {
					p.buf[p.head] = buf[i]
					p.head = (p.head + 1) % ringSize
					if p.head == 0 {
						p.full = true
					}
				}
				p.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
}

// SendKeys writes keystrokes to the picker, pausing briefly so that an
// escape is not read as the start of a sequence
func (p *Picker) SendKeys(keys ...string) {
	p.t.Helper()
	for _, k := range keys {
		if _, err := p.pty.Write([]byte(k)); err != nil {
			p.t.Fatalf("send %q: %v", k, err)
		}
		time.Sleep(60 * time.Millisecond)
	}
}

// Type sends text one character at a time
func (p *Picker) Type(text string) {
	p.t.Helper()
	for _, r := range text {
		p.SendKeys(string(r))
	}
}

// Ready waits for the picker to signal it's ready
func (p *Picker) Ready() bool {
	p.t.Helper()
	return p.WaitFor(func(s string) bool { return strings.Contains(s, "__READY__") }, 5*time.Second)
}

// SeePlain waits for plain text to appear in the normalized output
func (p *Picker) SeePlain(text string) bool {
	p.t.Helper()
	return p.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, 3*time.Second)
}

// WaitFor waits for a predicate to be true in the output
func (p *Picker) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	p.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(p.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond) // simple, reliable polling; tests only
	}
}

// WaitExit waits for the process to end and returns its exit code
func (p *Picker) WaitExit(timeout time.Duration) (int, error) {
	select {
	case err := <-p.exited:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	case <-time.After(timeout):
		return -1, fmt.Errorf("picker did not exit within %s\n--- tail ---\n%s", timeout, p.tail(4096))
	}
}

// Snapshot returns the current contents of the ring buffer (thread-safe)
func (p *Picker) Snapshot() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.full {
		return string(p.buf[:p.head])
	}
	out := make([]byte, ringSize)
	copy(out, p.buf[p.head:])
	copy(out[ringSize-p.head:], p.buf[:p.head])
	return string(out)
}

// SnapshotPlain returns the current contents of the ring buffer with ANSI sequences removed
func (p *Picker) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(p.Snapshot(), "")
}

func (p *Picker) tail(n int) string {
	s := p.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// Cleanup closes the PTY and terminates the picker
func (p *Picker) Cleanup() {
	// Close PTY first to deliver SIGHUP to child process
	if p.pty != nil {
		_ = p.pty.Close()
		p.pty = nil
	}
	if p.tty != nil {
		_ = p.tty.Close()
		p.tty = nil
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		p.cmd = nil
	}
}
