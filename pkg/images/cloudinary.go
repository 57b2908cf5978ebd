package images

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	log "github.com/sirupsen/logrus"
)

// Client wraps the Cloudinary SDK for avatar and cover image storage.
type Client struct {
	cld *cloudinary.Cloudinary
}

// New creates a Cloudinary client from account credentials.
func New(cloudName, apiKey, apiSecret string) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %v", err)
	}
	return &Client{cld: cld}, nil
}

// Upload pushes an image to Cloudinary and returns its delivery URL.
// The source may be a remote URL or a base64 data URI.
func (c *Client) Upload(ctx context.Context, source string) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, source, uploader.UploadParams{})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// Destroy removes a previously uploaded asset, identified by its
// delivery URL. Unknown assets are ignored.
func (c *Client) Destroy(ctx context.Context, assetURL string) error {
	publicID := PublicIDFromURL(assetURL)
	if publicID == "" {
		return nil
	}

	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy image: %v", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		log.WithField("publicID", publicID).Warnf("Unexpected destroy result: %s", result.Result)
	}
	return nil
}

// PublicIDFromURL extracts the Cloudinary public ID from a delivery URL,
// which is the last path segment without its file extension.
func PublicIDFromURL(u string) string {
	segment := path.Base(u)
	if segment == "." || segment == "/" {
		return ""
	}
	return strings.TrimSuffix(segment, path.Ext(segment))
}
