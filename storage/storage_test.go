package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/errs"
)

func fileHeader(t *testing.T, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="img"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["img"][0]
}

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
		check       func(error) bool
	}{
		{name: "png", contentType: "image/png", size: 1024},
		{name: "jpeg with params", contentType: "image/jpeg; charset=binary", size: 1024},
		{name: "gif at ceiling", contentType: "image/gif", size: int(MaxImageSize)},
		{name: "svg", contentType: "image/svg+xml", size: 10, check: errs.IsUnsupportedMediaTypeError},
		{name: "pdf", contentType: "application/pdf", size: 10, check: errs.IsUnsupportedMediaTypeError},
		{name: "too large", contentType: "image/png", size: int(MaxImageSize) + 1, check: errs.IsFileTooLargeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImage(fileHeader(t, "a.png", tt.contentType, make([]byte, tt.size)))
			if tt.check == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.True(t, errs.IsUploadRejectedError(err))
			assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		})
	}
}

func TestBuildFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-shop.png", BuildFileName("shop.png", now))
	assert.Equal(t, "1700000000123-passwd", BuildFileName("../../etc/passwd", now))
	assert.Equal(t, "1700000000123-my-shot-1-.png", BuildFileName(`C:\Users\me\my shot (1).png`, now))
	assert.Equal(t, "1700000000123-image", BuildFileName("", now))
}

func TestLocalStoreSaveServeRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("\x89PNG fake image")
	fh := fileHeader(t, "shop.png", "image/png", payload)

	path, err := SaveImage(context.Background(), store, ProjectsDir, fh, time.UnixMilli(42))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/projects/42-shop.png", path)

	onDisk, err := os.ReadFile(filepath.Join(store.Root, "projects", "42-shop.png"))
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)

	rr := httptest.NewRecorder()
	store.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, payload, rr.Body.Bytes())

	rr = httptest.NewRecorder()
	store.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/projects/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	require.NoError(t, store.Remove(context.Background(), path))
	_, err = os.Stat(filepath.Join(store.Root, "projects", "42-shop.png"))
	assert.True(t, os.IsNotExist(err))

	rr = httptest.NewRecorder()
	store.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.NoError(t, store.Remove(context.Background(), path), "removing twice is not an error")
	assert.Error(t, store.Remove(context.Background(), "/elsewhere/x.png"))
}

func TestSaveImageRejectsBeforeWriting(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = SaveImage(context.Background(), store, ProjectsDir, fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF")), time.Now())
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(store.Root, ProjectsDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type fakeObjects struct {
	puts     map[string][]byte
	deleted  []string
	err      error
	seekable bool
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, f.seekable = in.Body.(io.ReadSeeker)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	objects := &fakeObjects{puts: map[string][]byte{}}
	store := NewS3StoreWithClient(objects, "portfolio", "https://cdn.example.com/")

	path, err := store.Save(context.Background(), ProjectsDir, "1-a.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/projects/1-a.png", path)
	assert.Equal(t, []byte("img"), objects.puts["projects/1-a.png"])

	require.NoError(t, store.Remove(context.Background(), path))
	assert.Equal(t, []string{"projects/1-a.png"}, objects.deleted)
	assert.Error(t, store.Remove(context.Background(), "/uploads/projects/1-a.png"))

	path, err = SaveImage(context.Background(), store, ProjectsDir, fileHeader(t, "b.png", "image/png", []byte("png")), time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/projects/1700000000000-b.png", path)
	assert.True(t, objects.seekable, "upload body must be seekable for S3 signing")
	assert.Equal(t, []byte("png"), objects.puts["projects/1700000000000-b.png"])

	objects.err = errors.New("access denied")
	_, err = SaveImage(context.Background(), store, ProjectsDir, fileHeader(t, "a.png", "image/png", []byte("x")), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageWrite)
}
