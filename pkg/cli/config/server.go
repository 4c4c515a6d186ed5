package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr   string
	Secret string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("PAGECAP_ADDR"),
		},
		&cli.StringFlag{
			Name:        "secret",
			Usage:       "Shared secret for X-Pagecap-Signature verification (empty disables it)",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("PAGECAP_SECRET"),
		},
	}
}
