package interfaces

import (
	"context"

	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// CaptureUseCase captures a single web page to disk
type CaptureUseCase interface {
	// Download runs SingleFile for req with the given settings and validates
	// the file it wrote
	Download(ctx context.Context, settings *model.Settings, req *model.Request) (*model.Result, error)
}
