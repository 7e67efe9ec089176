package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxImageEdge is the longest side kept for employee photos.
const MaxImageEdge = 512

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type FileService interface {
	UploadEmployeeImage(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	FileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadEmployeeImage stores an employee photo and returns its storage path.
// Large JPEG and PNG images are scaled down; other formats are kept as sent.
func (s *fileServiceImpl) UploadEmployeeImage(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", employee.ErrInvalidImageType
	}

	buffer, err := io.ReadAll(io.LimitReader(file, employee.MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > employee.MaxImageSize {
		return "", employee.ErrImageTooLarge
	}

	if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
		buffer, err = downscale(buffer, ext, MaxImageEdge)
		if err != nil {
			return "", fmt.Errorf("%w: %v", employee.ErrInvalidImageType, err)
		}
	}

	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	p := path.Join("employees", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), p, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload employee image: %w", err)
	}
	return uploadedPath, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) FileURL(path string) string {
	return s.storage.URL(path)
}

// downscale re-encodes the image when its longest side exceeds maxEdge and
// returns the input untouched otherwise.
func downscale(buffer []byte, ext string, maxEdge int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= maxEdge && cfg.Height <= maxEdge {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width, height := fitWithin(cfg.Width, cfg.Height, maxEdge)
	resized := resizeImage(img, width, height)

	buf := new(bytes.Buffer)
	if ext == ".png" {
		err = png.Encode(buf, resized)
	} else {
		err = jpeg.Encode(buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWithin(width, height, maxEdge int) (int, int) {
	if width >= height {
		h := height * maxEdge / width
		return maxEdge, max(h, 1)
	}
	w := width * maxEdge / height
	return max(w, 1), maxEdge
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
