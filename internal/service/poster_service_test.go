package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"reelcorps/internal/config"
	"reelcorps/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestPosterService(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPosterRepository(db)
	svc := NewPosterService(repo, &config.Config{
		PosterUploadDir:       t.TempDir(),
		PosterMaxUploadSizeMB: 8,
	})
	ctx := context.Background()

	owner := createTestUser(t, db, "artdept", 0)

	t.Run("Upload writes webp and jpeg renditions", func(t *testing.T) {
		poster, err := svc.Upload(ctx, UploadPosterInput{
			OwnerID:     owner.ID,
			Filename:    "keyart.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 300, 450),
		})
		require.NoError(t, err)
		assert.Equal(t, 300, poster.Width)
		assert.Equal(t, 450, poster.Height)
		assert.NotEmpty(t, poster.ContentHash)

		_, fullPath, err := svc.ResolveFile(ctx, poster.ID)
		require.NoError(t, err)
		info, err := os.Stat(fullPath)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("Re-upload dedupes by content hash", func(t *testing.T) {
		content := pngBytes(t, 120, 180)
		first, err := svc.Upload(ctx, UploadPosterInput{OwnerID: owner.ID, Filename: "a.png", Content: content})
		require.NoError(t, err)
		second, err := svc.Upload(ctx, UploadPosterInput{OwnerID: owner.ID, Filename: "b.png", Content: content})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Oversized dimensions are capped", func(t *testing.T) {
		poster, err := svc.Upload(ctx, UploadPosterInput{
			OwnerID: owner.ID,
			Content: pngBytes(t, 3000, 1500),
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, poster.Width, PosterMaxSize)
		assert.LessOrEqual(t, poster.Height, PosterMaxSize)
	})

	t.Run("Garbage rejected", func(t *testing.T) {
		_, err := svc.Upload(ctx, UploadPosterInput{OwnerID: owner.ID, Content: []byte("not an image at all")})
		assert.Error(t, err)

		_, err = svc.Upload(ctx, UploadPosterInput{OwnerID: owner.ID, Content: nil})
		assert.Error(t, err)
	})

	t.Run("Delete removes row and files", func(t *testing.T) {
		poster, err := svc.Upload(ctx, UploadPosterInput{OwnerID: owner.ID, Content: pngBytes(t, 64, 64)})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, poster.ID))
		_, _, err = svc.ResolveFile(ctx, poster.ID)
		assert.Error(t, err)
	})
}
