package media

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalPathPrefix is where the server exposes files kept by LocalStorage.
const LocalPathPrefix = "/uploads/"

// LocalStorage writes images to a directory served by the API itself.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create media dir %s", dir)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStorage) Name() string {
	return "local"
}

// Dir is the directory the files are kept in.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Upload(_ context.Context, upload Upload) (models.Image, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(upload.FileName))
	if err := os.WriteFile(filepath.Join(s.dir, name), upload.Data, 0o644); err != nil {
		return models.Image{}, errors.Wrapf(err, "failed to write %s", name)
	}
	return models.Image{
		URL:      s.baseURL + path.Join(LocalPathPrefix, name),
		PublicID: name,
	}, nil
}

func (s *LocalStorage) URL(_ context.Context, image models.Image) (string, error) {
	return image.URL, nil
}
