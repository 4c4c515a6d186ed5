package gcs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pagecap/pkg/infra/gcs"
)

func TestObjectName(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "no prefix", prefix: "", want: "req-1/page.html"},
		{name: "prefix", prefix: "captures", want: "captures/req-1/page.html"},
		{name: "trailing slash", prefix: "captures/2026/", want: "captures/2026/req-1/page.html"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := gcs.ObjectName(tc.prefix, "req-1", filepath.Join("out", "page.html"))
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestURI(t *testing.T) {
	gt.Value(t, gcs.URI("my-bucket", "captures/req-1/page.html")).
		Equal("gs://my-bucket/captures/req-1/page.html")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := gcs.New(context.Background(), "", "captures")
	gt.Error(t, err)
}

func TestArchiver_Archive(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set, skipping integration test")
	}

	ctx := context.Background()
	archiver, err := gcs.New(ctx, bucket, "pagecap-test")
	gt.NoError(t, err)
	defer archiver.Close()

	path := filepath.Join(t.TempDir(), "page.html")
	gt.NoError(t, os.WriteFile(path, []byte("<html>ok</html>"), 0644))

	id := uuid.NewString()
	uri, err := archiver.Archive(ctx, id, path)
	gt.NoError(t, err)
	gt.Value(t, uri).Equal("gs://" + bucket + "/pagecap-test/" + id + "/page.html")
}
