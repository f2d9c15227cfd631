package media

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"contentpilot/internal/storage"
)

// Imagen generates images with Google's Imagen models and stores the bytes.
type Imagen struct {
	newClient GenAIFactory
	model     string
	uploader  storage.Uploader
}

var _ ImageGenerator = (*Imagen)(nil)

func NewImagen(factory GenAIFactory, model string, uploader storage.Uploader) *Imagen {
	return &Imagen{newClient: factory, model: model, uploader: uploader}
}

func (g *Imagen) GenerateImage(ctx context.Context, prompt string) (string, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", ErrNoURL
	}
	img := resp.GeneratedImages[0].Image

	if len(img.ImageBytes) == 0 {
		if img.GCSURI != "" {
			return storage.PublicURL(img.GCSURI), nil
		}
		if reason := resp.GeneratedImages[0].RAIFilteredReason; reason != "" {
			return "", fmt.Errorf("image filtered: %s", reason)
		}
		return "", ErrNoURL
	}

	contentType := img.MIMEType
	if contentType == "" {
		contentType = "image/png"
	}

	url, err := g.uploader.Upload(ctx, objectName("images", contentType), contentType, img.ImageBytes)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}
