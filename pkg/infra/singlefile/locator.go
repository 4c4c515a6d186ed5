package singlefile

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// Layout of a SingleFile CLI installation relative to the tool directory
const (
	NodeBinary = "node"
	ShimName   = "single-file"
	ShimCmd    = "single-file.cmd"
)

var (
	shimDir   = filepath.Join("node_modules", ".bin")
	entryPath = filepath.Join("node_modules", "single-file-cli", "single-file-node.js")
)

// Locator finds node and the SingleFile entry points
type Locator struct {
	goos     string
	lookPath func(file string) (string, error)
	exists   func(path string) bool
}

// Option configures a Locator
type Option func(*Locator)

// WithGOOS overrides the operating system used to pick the shim name
func WithGOOS(goos string) Option {
	return func(l *Locator) {
		l.goos = goos
	}
}

// WithLookPath overrides the PATH search used for node
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithExists overrides the entry file existence check
func WithExists(fn func(path string) bool) Option {
	return func(l *Locator) {
		l.exists = fn
	}
}

// NewLocator creates a Locator for the current host
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		exists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate inspects toolDir. An empty toolDir means the working directory.
func (l *Locator) Locate(toolDir string) *model.Toolchain {
	if toolDir == "" {
		toolDir = "."
	}

	shim := ShimName
	if l.goos == "windows" {
		shim = ShimCmd
	}

	tc := &model.Toolchain{
		GOOS:      l.goos,
		EntryPath: filepath.Join(toolDir, entryPath),
		ShimPath:  filepath.Join(toolDir, shimDir, shim),
	}

	if node, err := l.lookPath(NodeBinary); err == nil {
		tc.NodePath = node
	}
	tc.EntryExists = l.exists(tc.EntryPath)

	return tc
}
