package storage

import (
	"alcyxob/fitness-community/internal/config"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint keeping objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T) (FileStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "exports",
	})
	require.NoError(t, err)
	return fs, fake
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPutAndDeleteObject(t *testing.T) {
	ctx := context.Background()
	fs, fake := newTestStorage(t)

	require.NoError(t, fs.PutObject(ctx, "plans/1/2.json", "application/json", []byte(`{"a":1}`)))
	fake.mu.Lock()
	assert.Equal(t, `{"a":1}`, string(fake.objects["/exports/plans/1/2.json"]))
	assert.Equal(t, "application/json", fake.types["/exports/plans/1/2.json"])
	fake.mu.Unlock()

	require.NoError(t, fs.DeleteObject(ctx, "plans/1/2.json"))
	fake.mu.Lock()
	assert.NotContains(t, fake.objects, "/exports/plans/1/2.json")
	fake.mu.Unlock()
}

func TestPresignedDownloadURL(t *testing.T) {
	fs, _ := newTestStorage(t)

	url, err := fs.GeneratePresignedDownloadURL(context.Background(), "plans/1/2.json", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "/exports/plans/1/2.json")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.True(t, strings.Contains(url, "X-Amz-Expires=60"))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
}
