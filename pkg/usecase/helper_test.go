package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// fakeClock advances only when Sleep is called
type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if c.onSleep != nil {
		c.onSleep(len(c.sleeps))
	}
	return nil
}

func (c *fakeClock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.sleeps {
		sum += d
	}
	return sum
}

// fakeRunner stands in for SingleFile
type fakeRunner struct {
	mu    sync.Mutex
	calls []*model.Command
	run   func(cmd *model.Command) (*model.ProcessOutput, error)
}

func (r *fakeRunner) Run(_ context.Context, cmd *model.Command) (*model.ProcessOutput, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.run == nil {
		return &model.ProcessOutput{}, nil
	}
	return r.run(cmd)
}

// writingRunner writes content to path and exits cleanly
func writingRunner(path, content string) *fakeRunner {
	return &fakeRunner{
		run: func(*model.Command) (*model.ProcessOutput, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return nil, err
			}
			return &model.ProcessOutput{
				Stdout: []byte("  saved\n"),
				Stderr: []byte("Capturing page...\n"),
			}, nil
		},
	}
}

type fakeLocator struct {
	tc *model.Toolchain
}

func (l *fakeLocator) Locate(toolDir string) *model.Toolchain {
	if l.tc != nil {
		return l.tc
	}
	return &model.Toolchain{
		GOOS:        "linux",
		NodePath:    "/usr/bin/node",
		EntryPath:   filepath.Join(toolDir, "node_modules", "single-file-cli", "single-file-node.js"),
		EntryExists: true,
		ShimPath:    filepath.Join(toolDir, "node_modules", ".bin", "single-file"),
	}
}

type fakeArchiver struct {
	ids   []string
	paths []string
	err   error
}

func (a *fakeArchiver) Archive(_ context.Context, id, localPath string) (string, error) {
	a.ids = append(a.ids, id)
	a.paths = append(a.paths, localPath)
	if a.err != nil {
		return "", a.err
	}
	return "gs://bucket/" + id + "/" + filepath.Base(localPath), nil
}

type fakeNotifier struct {
	notices []*model.Notice
	err     error
}

func (n *fakeNotifier) Notify(_ context.Context, notice *model.Notice) error {
	n.notices = append(n.notices, notice)
	return n.err
}
