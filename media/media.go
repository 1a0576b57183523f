package media

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Upload is one validated image file read from a request.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Storage persists uploaded images and resolves the URL clients should load them from.
type Storage interface {
	Upload(ctx context.Context, upload Upload) (models.Image, error)
	URL(ctx context.Context, image models.Image) (string, error)
	Name() string
}

// ReadUploads validates and reads the image files of a parsed multipart form.
// A form without files yields no uploads.
func ReadUploads(form *multipart.Form) ([]Upload, error) {
	if form == nil {
		return nil, nil
	}

	headers := form.File[models.ItemImageField]
	if len(headers) > models.MaxItemImages {
		return nil, models.NewValidationError("Too many images", "at most 5 images are allowed")
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		contentType, ok := models.ImageContentType(fh.Filename)
		if !ok {
			return nil, models.NewValidationError("Only image files are allowed", fh.Filename)
		}
		if fh.Size > models.MaxImageSize {
			return nil, models.NewValidationError("Image too large", fh.Filename+" exceeds 5MB")
		}

		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		if len(data) > models.MaxImageSize {
			return nil, models.NewValidationError("Image too large", fh.Filename+" exceeds 5MB")
		}
		uploads = append(uploads, Upload{FileName: fh.Filename, ContentType: contentType, Data: data})
	}
	return uploads, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", fh.Filename)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", fh.Filename)
	}
	return data, nil
}

// StoreAll uploads every file concurrently and returns the stored images in upload order.
func StoreAll(ctx context.Context, storage Storage, uploads []Upload) ([]models.Image, error) {
	images := make([]models.Image, len(uploads))
	egp, egCtx := errgroup.WithContext(ctx)

	for i := range uploads {
		i := i
		egp.Go(func() error {
			image, err := storage.Upload(egCtx, uploads[i])
			if err != nil {
				return errors.Wrapf(err, "failed to upload %s", uploads[i].FileName)
			}
			images[i] = image
			return nil
		})
	}

	if err := egp.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// ResolveURLs maps stored images to the URLs clients should load.
func ResolveURLs(ctx context.Context, storage Storage, images []models.Image) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := storage.URL(ctx, image)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
