package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttc-bicumbi/portal/internal/dto"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

func TestSendMessage(t *testing.T) {
	svc := NewFormService(nil, nil)

	notice, err := svc.SendMessage(context.Background(), dto.MessageRequest{To: "Mr. Teacher", Subject: "Homework", Message: "Question"})
	require.NoError(t, err)
	assert.Equal(t, NoticeMessageSent, notice)

	_, err = svc.SendMessage(context.Background(), dto.MessageRequest{To: "Mr. Teacher", Subject: "  ", Message: "Question"})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "MISSING_FIELD", appErr.Code)
	assert.Equal(t, "subject", appErr.Details["field"])
}

func TestSubmitApplication(t *testing.T) {
	svc := NewFormService(nil, nil)
	req := dto.ApplicationRequest{FullName: "Jane", Email: "jane@example.com", Phone: "0788", ApplyingFor: "S1"}

	notice, err := svc.SubmitApplication(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, NoticeApplicationSubmitted, notice)

	bad := req
	bad.Email = "not-an-email"
	_, err = svc.SubmitApplication(context.Background(), bad)
	assert.Equal(t, "VALIDATION_ERROR", errCode(err))

	bad = req
	bad.Type = "visitor"
	_, err = svc.SubmitApplication(context.Background(), bad)
	assert.Equal(t, "VALIDATION_ERROR", errCode(err))

	bad = req
	bad.ApplyingFor = ""
	_, err = svc.SubmitApplication(context.Background(), bad)
	assert.Equal(t, "MISSING_FIELD", errCode(err))
}
