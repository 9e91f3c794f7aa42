package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
)

const (
	NoticeMessageSent          = "Message Sent!"
	NoticeApplicationSubmitted = "Application Submitted!"
)

// FormService validates and acknowledges the communication and application
// forms. Submissions are not stored.
type FormService struct {
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFormService constructs a FormService.
func NewFormService(validate *validator.Validate, logger *zap.Logger) *FormService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{validator: validate, logger: logger}
}

// SendMessage acknowledges a communication hub message.
func (s *FormService) SendMessage(ctx context.Context, req dto.MessageRequest) (string, error) {
	trimAll(&req.To, &req.Subject, &req.Message)
	if err := s.validator.Struct(req); err != nil {
		return "", validationError(err)
	}
	s.logger.Info("message acknowledged", zap.String("to", req.To), zap.Int("length", len(req.Message)))
	return NoticeMessageSent, nil
}

// SubmitApplication acknowledges an online application.
func (s *FormService) SubmitApplication(ctx context.Context, req dto.ApplicationRequest) (string, error) {
	trimAll(&req.Type, &req.FullName, &req.Email, &req.Phone, &req.ApplyingFor, &req.CoverLetter)
	req.Type = strings.ToLower(req.Type)
	if req.Type == "" {
		req.Type = "student"
	}
	if err := s.validator.Struct(req); err != nil {
		return "", validationError(err)
	}
	s.logger.Info("application acknowledged", zap.String("type", req.Type), zap.String("applying_for", req.ApplyingFor))
	return NoticeApplicationSubmitted, nil
}
