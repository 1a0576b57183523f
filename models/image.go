package models

import (
	"path/filepath"
	"strings"
)

const (
	// ItemImageField is the multipart field carrying listing photos.
	ItemImageField = "images"

	MaxItemImages    = 5
	MaxImageSize     = 5 << 20
	PlaceholderImage = "https://via.placeholder.com/400x400?text=No+Image"
)

var allowedImageFormats = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type Image struct {
	URL      string `json:"url" db:"url" bson:"url"`
	PublicID string `json:"publicId" db:"public_id" bson:"publicId"`
}

// ImageContentType returns the mime type for an allowed image file name.
func ImageContentType(fileName string) (string, bool) {
	ct, ok := allowedImageFormats[strings.ToLower(filepath.Ext(fileName))]
	return ct, ok
}
