package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"

	"reelcorps/internal/config"
	"reelcorps/internal/models"
	"reelcorps/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultPosterUploadDir       = "/tmp/reelcorps/uploads/posters"
	DefaultPosterMaxUploadSizeMB = 10
	PosterMaxSize                = 2048
	PosterWebPQuality            = 75
	PosterJPEGQuality            = 82
)

// UploadPosterInput is one multipart poster upload.
type UploadPosterInput struct {
	OwnerID     uint
	ProjectID   *uint
	Filename    string
	ContentType string
	Content     []byte
}

// PosterService decodes uploaded key art, caps its dimensions and re-encodes
// a webp master (plus a jpeg fallback) onto local disk.
type PosterService struct {
	repo               repository.PosterRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewPosterService returns a new PosterService.
func NewPosterService(repo repository.PosterRepository, cfg *config.Config) *PosterService {
	uploadDir := DefaultPosterUploadDir
	maxUploadSizeMB := DefaultPosterMaxUploadSizeMB

	if cfg != nil {
		if cfg.PosterUploadDir != "" {
			uploadDir = cfg.PosterUploadDir
		}
		if cfg.PosterMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.PosterMaxUploadSizeMB
		}
	}

	return &PosterService{
		repo:               repo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, processes and stores one poster. Re-uploading the same
// bytes by the same owner returns the existing row.
func (s *PosterService) Upload(ctx context.Context, in UploadPosterInput) (*models.Poster, error) {
	if in.OwnerID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	switch detectedType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	hash := posterHash(in.OwnerID, in.Content)
	if existing, err := s.repo.GetByHash(ctx, in.OwnerID, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	master := scaleToFit(decoded, PosterMaxSize, PosterMaxSize)
	bounds := master.Bounds()

	webpBytes, err := encodePosterWebP(master)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	jpegBytes, err := encodePosterJPEG(master)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	webpRel := filepath.ToSlash(filepath.Join(hash, "poster.webp"))
	jpegRel := filepath.ToSlash(filepath.Join(hash, "poster.jpg"))
	webpAbs := filepath.Join(s.uploadDir, webpRel)
	jpegAbs := filepath.Join(s.uploadDir, jpegRel)

	if err := writePosterFile(webpAbs, webpBytes); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writePosterFile(jpegAbs, jpegBytes); err != nil {
		_ = os.Remove(webpAbs)
		return nil, models.NewInternalError(err)
	}

	poster := &models.Poster{
		OwnerID:     in.OwnerID,
		ProjectID:   in.ProjectID,
		Path:        webpRel,
		ContentHash: hash,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		SizeBytes:   int64(len(webpBytes)),
	}
	if err := s.repo.Create(ctx, poster); err != nil {
		_ = os.Remove(webpAbs)
		_ = os.Remove(jpegAbs)
		return nil, err
	}
	return poster, nil
}

// Get returns poster metadata.
func (s *PosterService) Get(ctx context.Context, id uint) (*models.Poster, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForOwner returns the owner's posters, newest first.
func (s *PosterService) ListForOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Poster, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// ResolveFile maps a poster row to its on-disk webp path for serving.
func (s *PosterService) ResolveFile(ctx context.Context, id uint) (*models.Poster, string, error) {
	poster, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	fullPath := filepath.Join(s.uploadDir, filepath.FromSlash(poster.Path))
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Poster", id)
		}
		return nil, "", models.NewInternalError(err)
	}
	return poster, fullPath, nil
}

// Delete removes the row and best-effort removes the files.
func (s *PosterService) Delete(ctx context.Context, id uint) error {
	poster, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	dir := filepath.Join(s.uploadDir, poster.ContentHash)
	_ = os.RemoveAll(dir)
	return nil
}

func scaleToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodePosterWebP(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: PosterWebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePosterJPEG(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: PosterJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func posterHash(ownerID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", ownerID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writePosterFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
