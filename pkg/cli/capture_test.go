package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pagecap/pkg/cli"
)

// installShim puts a stand-in single-file shim under toolDir that writes a
// page to its second argument
func installShim(t *testing.T, toolDir string) {
	t.Helper()
	bin := filepath.Join(toolDir, "node_modules", ".bin")
	gt.NoError(t, os.MkdirAll(bin, 0755))
	script := "#!/bin/sh\nprintf '<html>ok</html>' > \"$2\"\n"
	gt.NoError(t, os.WriteFile(filepath.Join(bin, "single-file"), []byte(script), 0755))
}

func TestRun_CaptureIntoDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shim test needs /bin/sh")
	}

	toolDir := t.TempDir()
	outDir := t.TempDir()
	installShim(t, toolDir)

	err := cli.Run(context.Background(), []string{
		"pagecap", "capture",
		"--tool-dir", toolDir,
		"--output-dir", outDir,
		"--browser", "/usr/bin/chromium",
		"https://example.com/courses/1",
	})
	gt.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "example.com_courses_1.html"))
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("<html>ok</html>")
}

func TestRun_CaptureWithFilename(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shim test needs /bin/sh")
	}

	toolDir := t.TempDir()
	outDir := t.TempDir()
	installShim(t, toolDir)

	err := cli.Run(context.Background(), []string{
		"pagecap", "capture",
		"--tool-dir", toolDir,
		"--output-dir", filepath.Join(outDir, "out"),
		"--filename", "page.html",
		"--browser", "/usr/bin/chromium",
		"https://example.com/",
	})
	gt.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "out", "page.html"))
	gt.NoError(t, err)
}
