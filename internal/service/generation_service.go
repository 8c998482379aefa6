package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/generator"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/usage"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

const (
	blogTitleMaxTokens    = 1000
	resumeReviewMaxTokens = 1000
	defaultMaxResumeBytes = 5 * 1024 * 1024

	promptRemoveBackground = "Remove background from image"
	promptResumeReview     = "Review the uploaded resume"
	resumeReviewTemplate   = "Review the following resume and provide constructive feedback on its strengths, weakness, and areas for improvements. Resume Content:\n\n%s"
)

// Upload is a file received from the client. Open is called only after the
// request passed the gate and size checks.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// GenerationService runs gate → generator → store → meter for each feature.
type GenerationService struct {
	ledger         *usage.Ledger
	creations      repository.CreationRepository
	text           generator.TextGenerator
	images         generator.ImageGenerator
	media          generator.MediaStore
	resumes        generator.ResumeParser
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	maxResumeBytes int64
}

// GenerationDependencies bundles collaborators for the generation service.
type GenerationDependencies struct {
	Ledger         *usage.Ledger
	CreationRepo   repository.CreationRepository
	Text           generator.TextGenerator
	Images         generator.ImageGenerator
	Media          generator.MediaStore
	Resumes        generator.ResumeParser
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxResumeBytes int64
}

// NewGenerationService constructs the service.
func NewGenerationService(deps GenerationDependencies) *GenerationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxResume := deps.MaxResumeBytes
	if maxResume <= 0 {
		maxResume = defaultMaxResumeBytes
	}
	return &GenerationService{
		ledger:         deps.Ledger,
		creations:      deps.CreationRepo,
		text:           deps.Text,
		images:         deps.Images,
		media:          deps.Media,
		resumes:        deps.Resumes,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		maxResumeBytes: maxResume,
	}
}

// ArticleMaxTokens budgets completion tokens for an article of length words.
func ArticleMaxTokens(length int) int {
	return int(math.Ceil(float64(length) * 1.5))
}

// GenerateArticle writes an article of roughly length words.
func (s *GenerationService) GenerateArticle(ctx context.Context, account *usage.Account, prompt string, length int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.NewValidationError("prompt is required")
	}
	if length <= 0 {
		return "", apperrors.NewValidationError("length must be positive")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureArticle)
	if err != nil {
		return "", err
	}

	content, err := s.text.Complete(ctx, prompt, ArticleMaxTokens(length))
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	if err := s.record(ctx, account, decision, prompt, content, domain.CreationTypeArticle, false); err != nil {
		return "", err
	}
	return content, nil
}

// GenerateBlogTitle suggests blog titles for prompt.
func (s *GenerationService) GenerateBlogTitle(ctx context.Context, account *usage.Account, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.NewValidationError("prompt is required")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureBlogTitle)
	if err != nil {
		return "", err
	}

	content, err := s.text.Complete(ctx, prompt, blogTitleMaxTokens)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	if err := s.record(ctx, account, decision, prompt, content, domain.CreationTypeBlogTitle, false); err != nil {
		return "", err
	}
	return content, nil
}

// GenerateImage creates an image and rehosts it on the media store.
func (s *GenerationService) GenerateImage(ctx context.Context, account *usage.Account, prompt string, publish bool) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.NewValidationError("prompt is required")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureImage)
	if err != nil {
		return "", err
	}

	sourceURL, err := s.images.Generate(ctx, prompt)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}
	secureURL, err := s.media.UploadFromURL(ctx, sourceURL)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	if err := s.record(ctx, account, decision, prompt, secureURL, domain.CreationTypeImage, publish); err != nil {
		return "", err
	}
	return secureURL, nil
}

// RemoveBackground strips the background from an uploaded image.
func (s *GenerationService) RemoveBackground(ctx context.Context, account *usage.Account, upload *Upload) (string, error) {
	if upload == nil {
		return "", apperrors.NewValidationError("image is required")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureRemoveBackground)
	if err != nil {
		return "", err
	}

	file, closeFn, err := openUpload(upload)
	if err != nil {
		return "", err
	}
	defer closeFn()

	secureURL, err := s.media.RemoveBackground(ctx, file)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	if err := s.record(ctx, account, decision, promptRemoveBackground, secureURL, domain.CreationTypeImage, false); err != nil {
		return "", err
	}
	return secureURL, nil
}

// RemoveObject erases object from an uploaded image.
func (s *GenerationService) RemoveObject(ctx context.Context, account *usage.Account, upload *Upload, object string) (string, error) {
	if upload == nil {
		return "", apperrors.NewValidationError("image is required")
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return "", apperrors.NewValidationError("object is required")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureRemoveObject)
	if err != nil {
		return "", err
	}

	file, closeFn, err := openUpload(upload)
	if err != nil {
		return "", err
	}
	defer closeFn()

	imageURL, err := s.media.RemoveObject(ctx, file, object)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	prompt := fmt.Sprintf("Removed %s from image", object)
	if err := s.record(ctx, account, decision, prompt, imageURL, domain.CreationTypeImage, false); err != nil {
		return "", err
	}
	return imageURL, nil
}

// ReviewResume critiques an uploaded PDF resume.
func (s *GenerationService) ReviewResume(ctx context.Context, account *usage.Account, upload *Upload) (string, error) {
	if upload == nil {
		return "", apperrors.NewValidationError("resume is required")
	}

	decision, err := s.authorize(ctx, account, usage.FeatureResumeReview)
	if err != nil {
		return "", err
	}

	if upload.Size > s.maxResumeBytes {
		return "", apperrors.NewFileTooLarge(fmt.Sprintf("Resume file size exceeds allowed size (%dMB).", s.maxResumeBytes/(1024*1024)))
	}

	file, closeFn, err := openUpload(upload)
	if err != nil {
		return "", err
	}
	defer closeFn()

	data, err := io.ReadAll(io.LimitReader(file.Reader, s.maxResumeBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.maxResumeBytes {
		return "", apperrors.NewFileTooLarge(fmt.Sprintf("Resume file size exceeds allowed size (%dMB).", s.maxResumeBytes/(1024*1024)))
	}

	text, err := s.resumes.ExtractText(ctx, data)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	content, err := s.text.Complete(ctx, fmt.Sprintf(resumeReviewTemplate, text), resumeReviewMaxTokens)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	if err := s.record(ctx, account, decision, promptResumeReview, content, domain.CreationTypeResumeReview, false); err != nil {
		return "", err
	}
	return content, nil
}

func (s *GenerationService) authorize(ctx context.Context, account *usage.Account, feature usage.Feature) (usage.Decision, error) {
	if account == nil {
		return usage.Decision{}, apperrors.NewUnauthorized("account required")
	}
	decision, err := s.ledger.Authorize(account, feature)
	if err != nil {
		s.publish(ctx, events.EventAccessDenied, account.UserID, events.AccessDeniedPayload{
			Feature: string(feature),
			Reason:  string(decision.Reason),
		})
		return decision, err
	}
	return decision, nil
}

// record stores the creation and then meters the request.
func (s *GenerationService) record(ctx context.Context, account *usage.Account, decision usage.Decision, prompt, content string, kind domain.CreationType, publish bool) error {
	creation := &domain.Creation{
		UserID:  account.UserID,
		Prompt:  prompt,
		Content: content,
		Type:    kind,
		Publish: publish,
	}
	if err := s.creations.Create(ctx, creation); err != nil {
		s.logger.Error("store creation", zap.String("user_id", account.UserID), zap.Error(err))
		return err
	}
	s.publish(ctx, events.EventCreationStored, account.UserID, events.CreationStoredPayload{
		CreationID: creation.ID,
		Type:       kind,
		Publish:    publish,
	})

	if err := s.ledger.Consume(ctx, account, decision); err != nil {
		s.logger.Error("consume free usage", zap.String("user_id", account.UserID), zap.Error(err))
		return err
	}
	if decision.Metered {
		s.publish(ctx, events.EventUsageConsumed, account.UserID, events.UsageConsumedPayload{
			Feature:   string(decision.Feature),
			FreeUsage: account.FreeUsage,
			Remaining: usage.FreeUsageLimit - account.FreeUsage,
		})
	}
	return nil
}

func (s *GenerationService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func openUpload(upload *Upload) (generator.File, func(), error) {
	if upload.Open == nil {
		return generator.File{}, func() {}, apperrors.NewValidationError("file is empty")
	}
	rc, err := upload.Open()
	if err != nil {
		return generator.File{}, func() {}, err
	}
	file := generator.File{
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		Reader:      rc,
	}
	return file, func() { _ = rc.Close() }, nil
}
