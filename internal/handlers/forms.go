package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strconv"

	"cuero/internal/models"
	"cuero/internal/services"

	"github.com/gofiber/fiber/v2"
)

// rawFileName returns the filename parameter as the client submitted it.
// mime/multipart strips directory segments from FileHeader.Filename, but the
// part's Content-Disposition header is retained verbatim, so the relative
// path a folder upload carries can be recovered from it.
func rawFileName(fh *multipart.FileHeader) string {
	if cd := fh.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fh.Filename
}

// imageFilesFromForm reads the multipart files under the given field into
// memory. The full (possibly relative) filename is preserved so bulk folder
// uploads keep their path structure.
func imageFilesFromForm(form *multipart.Form, field string) ([]models.ImageFile, error) {
	var files []models.ImageFile
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
		}
		name := rawFileName(fh)
		files = append(files, models.ImageFile{
			Name:         path.Base(name),
			ContentType:  fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			RelativePath: name,
			Data:         data,
		})
	}
	return files, nil
}

// validateImageFile applies the form-boundary checks an image must pass
// before any network call: accepted type and the 5MB size limit.
func validateImageFile(f models.ImageFile) error {
	switch f.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return fmt.Errorf("file %s must be JPG, PNG or WebP", f.Name)
	}
	if f.Size > services.MaxImageSize {
		return fmt.Errorf("file %s exceeds the 5MB limit", f.Name)
	}
	return nil
}

// parsePrice converts an optional form price value.
func parsePrice(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", value)
	}
	return &price, nil
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation problems are unprocessable input, load faults ask the client to
// retry, auth faults are unauthorized, and everything else is a server-side
// mutation failure.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var loadErr *services.LoadError
	var authErr *services.AuthError
	var mutationErr *services.MutationError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"field":   validationErr.Field,
			"error":   validationErr.Message,
		})
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   authErr.Error(),
		})
	case errors.As(err, &loadErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Could not load data",
			"error":   loadErr.Error(),
		})
	case errors.As(err, &mutationErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Operation failed",
			"error":   mutationErr.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unexpected error",
			"error":   err.Error(),
		})
	}
}
