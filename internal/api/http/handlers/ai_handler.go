package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/service"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

// AIHandler exposes the generation endpoints.
type AIHandler struct {
	service *service.GenerationService
}

// NewAIHandler constructs handler.
func NewAIHandler(generationService *service.GenerationService) *AIHandler {
	return &AIHandler{service: generationService}
}

// GenerateArticle POST /api/ai/generate-article.
func (h *AIHandler) GenerateArticle(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.GenerateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	content, err := h.service.GenerateArticle(c.UserContext(), account, req.Prompt, req.Length)
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: content})
}

// GenerateBlogTitle POST /api/ai/generate-blog-title.
func (h *AIHandler) GenerateBlogTitle(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.GenerateBlogTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	content, err := h.service.GenerateBlogTitle(c.UserContext(), account, req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: content})
}

// GenerateImage POST /api/ai/generate-image.
func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	url, err := h.service.GenerateImage(c.UserContext(), account, req.Prompt, req.Publish)
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: url})
}

// RemoveImageBackground POST /api/ai/remove-image-background (multipart "image").
func (h *AIHandler) RemoveImageBackground(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	upload, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	url, err := h.service.RemoveBackground(c.UserContext(), account, upload)
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: url})
}

// RemoveImageObject POST /api/ai/remove-image-object (multipart "image", "object").
func (h *AIHandler) RemoveImageObject(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	upload, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	url, err := h.service.RemoveObject(c.UserContext(), account, upload, c.FormValue("object"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: url})
}

// ResumeReview POST /api/ai/resume-review (multipart "resume").
func (h *AIHandler) ResumeReview(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	upload, err := formUpload(c, "resume")
	if err != nil {
		return err
	}

	content, err := h.service.ReviewResume(c.UserContext(), account, upload)
	if err != nil {
		return err
	}
	return c.JSON(dto.Response{Success: true, Content: content})
}

func formUpload(c *fiber.Ctx, field string) (*service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, apperrors.NewValidationError(field + " file is required")
	}
	return fileHeaderUpload(fh), nil
}

func fileHeaderUpload(fh *multipart.FileHeader) *service.Upload {
	return &service.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
