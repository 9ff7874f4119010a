// Package assets loads the static files the bot attaches to messages: the
// product photo and the policy document. Missing files are not fatal, the
// bot simply sends text-only prompts.
package assets

import (
	"context"
	"os"

	"log/slog"

	"github.com/m3rciful/suvbot/core/logger"
)

// Bundle holds the loaded asset bytes. Nil slices mean the asset is absent.
type Bundle struct {
	Image  []byte
	Policy []byte
}

// HasImage reports whether the product photo was loaded.
func (b *Bundle) HasImage() bool { return b != nil && len(b.Image) > 0 }

// HasPolicy reports whether the policy document was loaded.
func (b *Bundle) HasPolicy() bool { return b != nil && len(b.Policy) > 0 }

// Load reads the configured asset files. Empty paths and unreadable files are
// logged and skipped.
func Load(ctx context.Context, imagePath, policyPath string) *Bundle {
	b := &Bundle{}
	b.Image = readOptional(ctx, "image", imagePath)
	b.Policy = readOptional(ctx, "policy", policyPath)
	return b
}

func readOptional(ctx context.Context, kind, path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(ctx, "service.assets", "assets.load",
			slog.String("status", "skip"),
			slog.String("mode", kind),
			slog.String("err", err.Error()),
		)
		return nil
	}
	logger.Debug(ctx, "service.assets", "assets.load",
		slog.String("status", "ok"),
		slog.String("mode", kind),
		slog.Int("size", len(data)),
	)
	return data
}
