package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name string
	data []byte
}

func parsedForm(t *testing.T, files ...testFile) *multipart.Form {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "Phone"))
	for _, f := range files {
		fw, err := mw.CreateFormFile(models.ItemImageField, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm
}

func TestReadUploads(t *testing.T) {
	t.Parallel()

	t.Run("no files", func(t *testing.T) {
		uploads, err := ReadUploads(parsedForm(t))
		require.NoError(t, err)
		assert.Empty(t, uploads)
	})

	t.Run("reads in order with content type", func(t *testing.T) {
		uploads, err := ReadUploads(parsedForm(t,
			testFile{name: "front.JPG", data: []byte("a")},
			testFile{name: "back.webp", data: []byte("bb")},
		))
		require.NoError(t, err)
		require.Len(t, uploads, 2)
		assert.Equal(t, "front.JPG", uploads[0].FileName)
		assert.Equal(t, "image/jpeg", uploads[0].ContentType)
		assert.Equal(t, []byte("bb"), uploads[1].Data)
		assert.Equal(t, "image/webp", uploads[1].ContentType)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		_, err := ReadUploads(parsedForm(t, testFile{name: "notes.pdf", data: []byte("x")}))
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("rejects more than five files", func(t *testing.T) {
		files := make([]testFile, 6)
		for i := range files {
			files[i] = testFile{name: "p.png", data: []byte("x")}
		}
		_, err := ReadUploads(parsedForm(t, files...))
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("rejects large files", func(t *testing.T) {
		big := bytes.Repeat([]byte("x"), models.MaxImageSize+1)
		_, err := ReadUploads(parsedForm(t, testFile{name: "big.png", data: big}))
		assert.True(t, models.IsValidationError(err))
	})
}

type recordingStorage struct {
	mu    sync.Mutex
	names []string
	fail  string
}

func (s *recordingStorage) Name() string { return "recording" }

func (s *recordingStorage) Upload(_ context.Context, u Upload) (models.Image, error) {
	if u.FileName == s.fail {
		return models.Image{}, assert.AnError
	}
	s.mu.Lock()
	s.names = append(s.names, u.FileName)
	s.mu.Unlock()
	return models.Image{URL: "https://cdn.test/" + u.FileName, PublicID: u.FileName}, nil
}

func (s *recordingStorage) URL(_ context.Context, img models.Image) (string, error) {
	return img.URL + "?signed", nil
}

func TestStoreAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	uploads := []Upload{{FileName: "1.png"}, {FileName: "2.png"}, {FileName: "3.png"}}

	images, err := StoreAll(ctx, &recordingStorage{}, uploads)
	require.NoError(t, err)
	require.Len(t, images, 3)
	for i, img := range images {
		assert.Equal(t, uploads[i].FileName, img.PublicID)
	}

	_, err = StoreAll(ctx, &recordingStorage{fail: "2.png"}, uploads)
	assert.ErrorIs(t, err, assert.AnError)

	urls, err := ResolveURLs(ctx, &recordingStorage{}, images)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/1.png?signed", urls[0])
}

func TestLocalStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := NewLocalStorage(dir, "http://localhost:5000/")
	require.NoError(t, err)

	img, err := s.Upload(ctx, Upload{FileName: "Photo.PNG", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))
	assert.Equal(t, "http://localhost:5000/uploads/"+img.PublicID, img.URL)

	data, err := os.ReadFile(filepath.Join(dir, img.PublicID))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	url, err := s.URL(ctx, img)
	require.NoError(t, err)
	assert.Equal(t, img.URL, url)
}
