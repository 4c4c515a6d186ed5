package interfaces

import (
	"context"

	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// Archiver copies a captured page to long-term storage and returns its URI
type Archiver interface {
	Archive(ctx context.Context, id, localPath string) (string, error)
}

// Notifier tells someone that a capture hit a login page
type Notifier interface {
	Notify(ctx context.Context, notice *model.Notice) error
}
