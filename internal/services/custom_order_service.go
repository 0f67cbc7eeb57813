package services

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"spiritbeads/internal/metrics"
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/pkg/imagetype"
	"spiritbeads/pkg/mailer"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Upload limits for custom order reference images.
const (
	MaxUploadFiles = 10
	MaxUploadBytes = 7 * 1024 * 1024
)

const mediaPrefix = "custom_orders"

// ImageUpload is a file received through the multipart variant of the
// intake endpoint.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// CustomOrderInput is the one form both request variants resolve into at
// the boundary. Exactly one of Uploads (multipart) or ImageRefs (JSON) is
// populated; validation and persistence below never care which endpoint
// shape the request arrived in.
type CustomOrderInput struct {
	Name        string
	Email       string
	Description string
	Colors      string
	Uploads     []ImageUpload
	ImageRefs   []string
}

// Validate applies the field rules shared by both input variants.
func (in *CustomOrderInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Description = strings.TrimSpace(in.Description)
	in.Colors = strings.TrimSpace(in.Colors)

	if in.Name == "" {
		return fmt.Errorf("missing required field: name: %w", ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("missing required field: email: %w", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("missing required field: description: %w", ErrValidation)
	}
	if !strings.Contains(in.Email, "@") || !strings.Contains(in.Email, ".") {
		return fmt.Errorf("invalid email address: %w", ErrValidation)
	}
	if len(in.Description) < 10 {
		return fmt.Errorf("description must be at least 10 characters: %w", ErrValidation)
	}
	if len(in.Uploads) > MaxUploadFiles {
		return fmt.Errorf("maximum %d images allowed: %w", MaxUploadFiles, ErrValidation)
	}
	return nil
}

// CustomOrderService persists custom order requests with their reference
// images and notifies the shop owner.
type CustomOrderService struct {
	repo       repositories.CustomOrderRepository
	fs         afero.Fs
	mail       mailer.Mailer
	mediaRoot  string
	mediaURL   string
	adminEmail string
}

// NewCustomOrderService creates a new CustomOrderService.
func NewCustomOrderService(repo repositories.CustomOrderRepository, fs afero.Fs, mail mailer.Mailer, mediaRoot, mediaURL, adminEmail string) *CustomOrderService {
	return &CustomOrderService{
		repo:       repo,
		fs:         fs,
		mail:       mail,
		mediaRoot:  mediaRoot,
		mediaURL:   mediaURL,
		adminEmail: adminEmail,
	}
}

// Submit validates the request, stores any uploaded images and persists the
// custom order in pending state. The admin notification email is
// best-effort: a mail failure is logged and the request still succeeds.
func (s *CustomOrderService) Submit(input CustomOrderInput) (*models.CustomOrderRequest, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(input.Uploads)+len(input.ImageRefs))

	for i, upload := range input.Uploads {
		if len(upload.Content) > MaxUploadBytes {
			return nil, fmt.Errorf("image %d exceeds %dMB limit: %w", i+1, MaxUploadBytes/(1024*1024), ErrValidation)
		}

		// The filename and declared content-type are never trusted; only
		// the leading bytes decide whether this is an image.
		imgType, ok := imagetype.Detect(upload.Content)
		if !ok {
			return nil, fmt.Errorf("image %d is not a valid image type, allowed: %s: %w",
				i+1, strings.Join(imagetype.Supported(), ", "), ErrValidation)
		}

		filename := uuid.New().String() + imagetype.Extension(imgType)
		diskPath := filepath.Join(s.mediaRoot, mediaPrefix, filename)
		if err := s.fs.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare media directory: %w", err)
		}
		if err := afero.WriteFile(s.fs, diskPath, upload.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to save image %d: %w", i+1, err)
		}

		images = append(images, s.mediaURL+path.Join(mediaPrefix, filename))
	}

	images = append(images, input.ImageRefs...)

	request := &models.CustomOrderRequest{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Email:       input.Email,
		Description: input.Description,
		Colors:      input.Colors,
		Images:      images,
		Status:      models.CustomOrderStatusPending,
	}
	if err := s.repo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create custom order request: %w", err)
	}

	metrics.CustomOrderRequests.Inc()

	if s.mail != nil {
		subject := fmt.Sprintf("New Custom Order Request from %s", request.Name)
		body := fmt.Sprintf(
			"A new custom order request came in.\n\nName: %s\nEmail: %s\nColors: %s\nImages: %d\n\nDescription:\n%s\n",
			request.Name, request.Email, request.Colors, len(request.Images), request.Description)
		if err := s.mail.Send([]string{s.adminEmail}, subject, body); err != nil {
			logrus.Warnf("failed to send admin notification for request %s: %v", request.ID, err)
		}
	}

	return request, nil
}
