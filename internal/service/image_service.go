package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"socialite/internal/config"
	"socialite/internal/middleware"
	"socialite/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // register GIF decoder
	_ "image/png"  // register PNG decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultImageUploadDir       = "uploads/profile-images"
	DefaultImageMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	JPEGQuality                 = 82
	WebPQuality                 = 70

	// PublicImagePathPrefix is the URL path the server mounts the upload
	// directory at; stored URLs are relative to the API host.
	PublicImagePathPrefix = "/uploads/profile-images"
)

// UploadImageInput carries one uploaded file and its owner.
type UploadImageInput struct {
	UserID      string
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService validates and stores profile images and returns public URLs
// for them. Images are re-encoded to a master JPEG plus a WebP variant.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewImageService returns an ImageService configured from cfg.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the directory uploads are written to.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// Upload validates the content, stores master JPEG and WebP variants under a
// unique filename and returns the public URL of the JPEG.
func (s *ImageService) Upload(_ context.Context, in UploadImageInput) (string, error) {
	if in.UserID == "" {
		return "", models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return "", models.NewValidationError("File is empty")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !strings.HasPrefix(detectedType, "image/") {
		return "", models.NewValidationError("File must be an image")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	encodedJPEG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	base := fmt.Sprintf("%s_%s", in.UserID, uuid.NewString())
	jpegName := base + ".jpg"
	webpName := base + ".webp"

	if err := writeBytesToFile(filepath.Join(s.uploadDir, jpegName), encodedJPEG); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(filepath.Join(s.uploadDir, webpName), encodedWebP); err != nil {
		// Roll back the JPEG so the directory holds no half-written pair.
		_ = os.Remove(filepath.Join(s.uploadDir, jpegName))
		return "", models.NewInternalError(err)
	}

	return PublicImagePathPrefix + "/" + jpegName, nil
}

// Delete best-effort removes the files backing the given public URL. Errors
// are logged and swallowed.
func (s *ImageService) Delete(imageURL string) {
	if imageURL == "" {
		return
	}
	filename := filepath.Base(imageURL)
	if filename == "." || filename == "/" || strings.Contains(filename, "..") {
		return
	}
	paths := []string{
		filepath.Join(s.uploadDir, filename),
		filepath.Join(s.uploadDir, strings.TrimSuffix(filename, filepath.Ext(filename))+".webp"),
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			middleware.Logger.Warn("failed to delete profile image",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

// resizeToFit scales the image down to fit within maxW x maxH, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func resizeToFit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
