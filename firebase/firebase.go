package firebase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const uploadTimeout = 5 * time.Minute

// Storage keeps listing images in a Firebase storage bucket.
type Storage struct {
	bucket     *storage.BucketHandle
	bucketName string
	folder     string

	// signing is set when image URLs are served as signed URLs
	signing *storage.SignedURLOptions
	ttl     time.Duration
}

// NewStorage initializes a firebase app from a service account key and opens the given bucket.
func NewStorage(ctx context.Context, credentialsJSON, bucketName, folder string, signed bool, ttl time.Duration) (*Storage, error) {
	if credentialsJSON == "" || bucketName == "" {
		return nil, errors.New("firebase key and bucket are required for firebase media")
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, errors.Wrap(err, "error initializing firebase app")
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error getting firebase storage client")
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening bucket %s", bucketName)
	}

	s := &Storage{
		bucket:     bucket,
		bucketName: bucketName,
		folder:     folder,
		ttl:        ttl,
	}

	if signed {
		cfg, err := google.JWTConfigFromJSON([]byte(credentialsJSON))
		if err != nil {
			return nil, errors.Wrap(err, "error reading signing key")
		}
		s.signing = &storage.SignedURLOptions{
			GoogleAccessID: cfg.Email,
			PrivateKey:     cfg.PrivateKey,
			Method:         "GET",
		}
	}
	return s, nil
}

func (s *Storage) Name() string {
	return "firebase"
}

// objectName places the upload under the configured folder with a unique prefix.
func objectName(folder, fileName string) string {
	return path.Join(folder, uuid.New().String()+path.Base(fileName))
}

func publicURL(bucketName, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, (&url.URL{Path: object}).EscapedPath())
}

// Upload writes the image to the bucket and records its object path as the public id.
func (s *Storage) Upload(ctx context.Context, upload media.Upload) (models.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	object := objectName(s.folder, upload.FileName)
	writer := s.bucket.Object(object).NewWriter(ctx)
	writer.ContentType = upload.ContentType

	if _, err := io.Copy(writer, bytes.NewReader(upload.Data)); err != nil {
		_ = writer.Close()
		return models.Image{}, errors.Wrapf(err, "failed to write %s", object)
	}
	if err := writer.Close(); err != nil {
		return models.Image{}, errors.Wrapf(err, "failed to finalize %s", object)
	}

	return models.Image{URL: publicURL(s.bucketName, object), PublicID: object}, nil
}

// URL returns a short lived signed URL when signing is enabled, the stored URL otherwise.
func (s *Storage) URL(_ context.Context, image models.Image) (string, error) {
	if s.signing == nil || image.PublicID == "" {
		return image.URL, nil
	}

	opts := *s.signing
	opts.Expires = time.Now().Add(s.ttl)
	signed, err := storage.SignedURL(s.bucketName, image.PublicID, &opts)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign url for %s", image.PublicID)
	}
	return signed, nil
}
