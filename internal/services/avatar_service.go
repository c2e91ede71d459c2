package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"github.com/gather/server/internal/config"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
)

var defaultAvatarExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif"}

// AvatarService turns uploaded pictures into square JPEG avatars
type AvatarService struct {
	storage    AssetStorage
	users      *UserService
	metrics    *observability.BusinessMetrics
	size       int
	maxBytes   int64
	maxPixels  int64
	extensions map[string]bool
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage AssetStorage, users *UserService, cfg config.Assets, metrics *observability.BusinessMetrics) *AvatarService {
	size := cfg.AvatarSize
	if size <= 0 {
		size = 256
	}
	maxMB := cfg.AvatarMaxSizeMB
	if maxMB <= 0 {
		maxMB = 5
	}
	maxPixels := cfg.AvatarMaxPixels
	if maxPixels <= 0 {
		maxPixels = 40_000_000
	}
	exts := cfg.AllowedExtensions
	if len(exts) == 0 {
		exts = defaultAvatarExtensions
	}
	extSet := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[ext] = true
	}

	return &AvatarService{
		storage:    storage,
		users:      users,
		metrics:    metrics,
		size:       size,
		maxBytes:   maxMB * 1024 * 1024,
		maxPixels:  maxPixels,
		extensions: extSet,
	}
}

// MaxBytes is the largest accepted upload
func (s *AvatarService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload replaces the user's profile picture. The previous picture is
// removed from storage on a best-effort basis.
func (s *AvatarService) Upload(ctx context.Context, user *models.User, filename string, r io.Reader) (resp *models.AvatarResponse, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AvatarService", "Upload", observability.UserID(user.ID))
	defer func() {
		s.metrics.RecordAvatarUpload(ctx, s.storage.Kind(), err == nil)
		observability.EndSpan(span, err)
	}()

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.extensions[ext] {
		return nil, models.ErrInvalidImage
	}
	data, ok, err := readLimited(r, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if !ok {
		return nil, models.ErrFileTooLarge
	}

	avatar, err := s.render(data, ext)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s.jpg", user.ID, uuid.NewString())
	url, err := s.storage.Put(ctx, key, avatar, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	previous := user.ProfilePicture
	if err := s.users.SetProfilePicture(ctx, user, &url); err != nil {
		s.deleteBestEffort(ctx, url)
		return nil, err
	}
	if previous != nil && *previous != url {
		s.deleteBestEffort(ctx, *previous)
	}

	return &models.AvatarResponse{ProfilePicture: url, User: user}, nil
}

// Remove clears the user's profile picture
func (s *AvatarService) Remove(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ProfilePicture == nil {
		return user, nil
	}
	previous := *user.ProfilePicture
	if err := s.users.SetProfilePicture(ctx, user, nil); err != nil {
		return nil, err
	}
	s.deleteBestEffort(ctx, previous)
	return user, nil
}

// render decodes, orients and square-crops the picture, returning JPEG bytes.
// Dimensions are read from the header first so that a small file declaring a
// huge canvas is rejected before any pixel buffer is allocated.
func (s *AvatarService) render(data []byte, ext string) ([]byte, error) {
	heif := ext == ".heic" || ext == ".heif"

	var (
		cfg image.Config
		err error
	)
	if heif {
		cfg, err = goheif.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, models.ErrInvalidImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > s.maxPixels {
		return nil, models.ErrImageTooLarge
	}

	var img image.Image
	if heif {
		img, err = goheif.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, models.ErrInvalidImage
	}

	img = applyOrientation(img, readOrientation(data))
	square := imaging.Fill(img, s.size, s.size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *AvatarService) deleteBestEffort(ctx context.Context, url string) {
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		observability.WithContext(ctx).WithError(err).WithField("key", key).Warn("Failed to delete avatar")
	}
}

// readOrientation returns the EXIF orientation (1..8), 1 when absent
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	if val, err := tag.Int(0); err == nil && val >= 1 && val <= 8 {
		return val
	}
	return 1
}

// applyOrientation corrects image orientation based on EXIF data
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
