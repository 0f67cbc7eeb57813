package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"spiritbeads/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CustomOrderHandler handles custom order request intake.
type CustomOrderHandler struct {
	service *services.CustomOrderService
}

// NewCustomOrderHandler creates a new CustomOrderHandler.
func NewCustomOrderHandler(service *services.CustomOrderService) *CustomOrderHandler {
	return &CustomOrderHandler{service: service}
}

// RegisterRoutes registers the custom order routes with the Fiber app.
func (h *CustomOrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/custom-orders/", h.HandleSubmit)
}

// HandleSubmit accepts a custom order request as either multipart/form-data
// (file uploads) or JSON (inline references). The variant is resolved here,
// once, into a single input struct; everything past this point is shared.
func (h *CustomOrderHandler) HandleSubmit(c *fiber.Ctx) error {
	var input services.CustomOrderInput
	var err error

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		input, err = parseMultipartInput(c)
	} else {
		input, err = parseJSONInput(c)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	request, err := h.service.Submit(input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logrus.Errorf("error creating custom order request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Custom order request submitted successfully!",
		"request_id": request.ID,
	})
}

func parseMultipartInput(c *fiber.Ctx) (services.CustomOrderInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return services.CustomOrderInput{}, errors.New("invalid multipart form")
	}

	input := services.CustomOrderInput{
		Name:        formValue(form.Value, "name"),
		Email:       formValue(form.Value, "email"),
		Description: formValue(form.Value, "description"),
		Colors:      formValue(form.Value, "colors"),
	}

	for _, fileHeader := range form.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			return services.CustomOrderInput{}, errors.New("could not read uploaded image")
		}
		content, err := io.ReadAll(io.LimitReader(file, services.MaxUploadBytes+1))
		file.Close()
		if err != nil {
			return services.CustomOrderInput{}, errors.New("could not read uploaded image")
		}
		input.Uploads = append(input.Uploads, services.ImageUpload{
			Filename: fileHeader.Filename,
			Content:  content,
		})
	}

	return input, nil
}

type customOrderJSON struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Description string            `json:"description"`
	Colors      string            `json:"colors"`
	Images      []json.RawMessage `json:"images"`
}

func parseJSONInput(c *fiber.Ctx) (services.CustomOrderInput, error) {
	var body customOrderJSON
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return services.CustomOrderInput{}, errors.New("invalid JSON")
	}

	input := services.CustomOrderInput{
		Name:        body.Name,
		Email:       body.Email,
		Description: body.Description,
		Colors:      body.Colors,
	}

	// Images arrive either as plain strings or as {"preview": ...} objects
	// from the storefront's upload widget.
	for _, raw := range body.Images {
		var ref string
		if err := json.Unmarshal(raw, &ref); err == nil {
			input.ImageRefs = append(input.ImageRefs, ref)
			continue
		}
		var obj struct {
			Preview string `json:"preview"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Preview != "" {
			input.ImageRefs = append(input.ImageRefs, obj.Preview)
		}
	}

	return input, nil
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
