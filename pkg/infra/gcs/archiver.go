package gcs

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// Archiver uploads captured pages to a Cloud Storage bucket
type Archiver struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Archiver = (*Archiver)(nil)

// New creates an Archiver. Credentials are resolved by the storage client
// unless opts carry them.
func New(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*Archiver, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// ObjectName returns the object key for a capture: <prefix>/<id>/<basename>
func ObjectName(prefix, id, localPath string) string {
	return path.Join(prefix, id, filepath.Base(localPath))
}

// URI formats a gs:// location
func URI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

// Archive uploads localPath and returns its gs:// URI
func (a *Archiver) Archive(ctx context.Context, id, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open captured page", goerr.V("path", localPath))
	}
	defer f.Close()

	object := ObjectName(a.prefix, id, localPath)
	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType(localPath)
	w.Metadata = map[string]string{"request_id": id}

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload captured page",
			goerr.V("bucket", a.bucket),
			goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize upload",
			goerr.V("bucket", a.bucket),
			goerr.V("object", object))
	}

	uri := URI(a.bucket, object)
	ctxlog.From(ctx).Debug("Archived captured page", "uri", uri, "size", w.Attrs().Size)
	return uri, nil
}

// Close releases the storage client
func (a *Archiver) Close() error {
	return a.client.Close()
}

func contentType(p string) string {
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return t
	}
	return "text/html; charset=utf-8"
}
