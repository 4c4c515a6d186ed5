package types

// Version is overwritten at build time via -ldflags "-X github.com/m-mizutani/pagecap/pkg/domain/types.Version=..."
var Version = "dev"

// ServiceName is reported by the health endpoint and used as the Sentry server name.
const ServiceName = "pagecap"
