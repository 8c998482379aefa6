package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/service"
	"github.com/spec-kit/content-service/internal/usage"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

// UserHandler exposes the caller's creations, the public feed and quota.
type UserHandler struct {
	creations *service.CreationService
}

// NewUserHandler constructs handler.
func NewUserHandler(creationService *service.CreationService) *UserHandler {
	return &UserHandler{creations: creationService}
}

// GetUserCreations GET /api/user/get-user-creations.
func (h *UserHandler) GetUserCreations(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	items, err := h.creations.ListForUser(c.UserContext(), account.UserID)
	if err != nil {
		return err
	}
	return c.JSON(creationsResponse(items))
}

// GetPublishedCreations GET /api/user/get-published-creations.
func (h *UserHandler) GetPublishedCreations(c *fiber.Ctx) error {
	items, err := h.creations.ListPublished(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(creationsResponse(items))
}

// ToggleLikeCreation POST /api/user/toggle-like-creation.
func (h *UserHandler) ToggleLikeCreation(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ToggleLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	liked, err := h.creations.ToggleLike(c.UserContext(), account.UserID, req.ID)
	if err != nil {
		return err
	}
	message := "Creation Unliked"
	if liked {
		message = "Creation Liked"
	}
	return c.JSON(dto.Response{Success: true, Message: message})
}

// Usage GET /api/user/usage.
func (h *UserHandler) Usage(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	snap := usage.Snapshot(account)
	resp := dto.UsageResponse{
		Success:   true,
		Plan:      string(account.Plan),
		FreeUsage: account.FreeUsage,
		Limit:     snap.Limit,
		Remaining: snap.Remaining,
	}
	if account.Plan == domain.PlanExclusive {
		resp.Remaining = -1
	}
	return c.JSON(resp)
}

func creationsResponse(items []domain.Creation) dto.CreationsResponse {
	out := make([]dto.CreationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.NewCreationResponse(item))
	}
	return dto.CreationsResponse{Success: true, Creations: out}
}
