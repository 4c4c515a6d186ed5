package model

import (
	"strings"
	"time"
)

// Strategy is the way SingleFile gets invoked
type Strategy string

const (
	// StrategyNode runs the script entry through node with a discrete argv
	StrategyNode Strategy = "node"
	// StrategyShell runs the node_modules/.bin shim through a shell command line
	StrategyShell Strategy = "shell"
)

// Toolchain describes where SingleFile lives on this host
type Toolchain struct {
	GOOS        string
	NodePath    string // empty when node is not on PATH
	EntryPath   string
	EntryExists bool
	ShimPath    string
}

// Command is a fully assembled SingleFile invocation
type Command struct {
	Strategy Strategy

	// Program and Args are used by StrategyNode
	Program string
	Args    []string

	// Line is used by StrategyShell
	Line string
}

// String renders the command the way it would be typed
func (c *Command) String() string {
	if c.Strategy == StrategyShell {
		return c.Line
	}
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// ProcessOutput is what a finished process left behind
type ProcessOutput struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}
