// Package blob abstracts image storage. The application keeps only the
// returned URL; resizing and transcoding are the store's concern.
package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store accepts an image and returns a stable URL for it.
type Store interface {
	Upload(ctx context.Context, r io.Reader, folder, publicID string) (string, error)
}

// CloudinaryStore uploads to cloudinary with a size-limiting transformation.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore builds a store from a CLOUDINARY_URL value.
func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, folder, publicID string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		Transformation: "c_limit,w_800,h_800,q_auto",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
