package generator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/content-service/internal/config"
)

const (
	transformBackgroundRemoval = "e_background_removal"
	transformGenRemovePrefix   = "e_gen_remove:prompt_"
)

// Cloudinary hosts images on Cloudinary.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds the media store from credentials.
func NewCloudinary(cfg config.MediaConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

// UploadFromURL copies a remote image into the configured folder.
func (c *Cloudinary) UploadFromURL(ctx context.Context, sourceURL string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// RemoveBackground uploads file with background removal applied on ingest.
func (c *Cloudinary) RemoveBackground(ctx context.Context, file File) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		Transformation: transformBackgroundRemoval,
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// RemoveObject uploads file and returns a delivery URL that erases object.
func (c *Cloudinary) RemoveObject(ctx context.Context, file File, object string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}

	asset, err := c.cld.Image(res.PublicID)
	if err != nil {
		return "", err
	}
	asset.Transformation = GenRemoveTransformation(object)
	return asset.String()
}

// GenRemoveTransformation builds the generative remove effect for object.
func GenRemoveTransformation(object string) string {
	return transformGenRemovePrefix + url.PathEscape(strings.TrimSpace(object))
}
