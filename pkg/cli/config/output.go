package config

import (
	"github.com/adrg/xdg"
	"github.com/urfave/cli/v3"
)

// Output holds where captured pages are written
type Output struct {
	Dir string
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory for captured pages",
			Value:       xdg.UserDirs.Download,
			Destination: &c.Dir,
			Sources:     cli.EnvVars("PAGECAP_OUTPUT_DIR"),
		},
	}
}
