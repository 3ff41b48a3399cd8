package openai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Illustrator renders a scene prompt to a PNG under AssetDir and returns
// the public URL path. It only ever runs off the request path.
type Illustrator struct {
	client     *Client
	assetDir   string
	publicPath string
}

func NewIllustrator(client *Client, assetDir, publicPath string) *Illustrator {
	if publicPath == "" {
		publicPath = "/generated"
	}
	return &Illustrator{client: client, assetDir: assetDir, publicPath: publicPath}
}

func (il *Illustrator) Generate(ctx context.Context, prompt, fileStem string) (string, error) {
	raw, err := il.client.image(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if err := os.MkdirAll(il.assetDir, 0o755); err != nil {
		return "", fmt.Errorf("asset dir: %w", err)
	}
	name := fileStem + ".png"
	if err := os.WriteFile(filepath.Join(il.assetDir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return il.publicPath + "/" + name, nil
}
