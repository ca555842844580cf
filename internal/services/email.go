package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/utils"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendVerificationEmail mints a verification token for the user and sends
// the verification link.
func (s *EmailService) SendVerificationEmail(user *models.User) error {
	authConf := config.Conf.Auth
	token, err := utils.NewVerificationToken(user.ID, authConf.VerifySecret, time.Duration(authConf.VerifyTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/verify?token=%s", config.Conf.Server.BaseURL, token)
	s.log.Info("Sending verification email",
		zap.String("to", user.Email),
		zap.Uint("userID", user.ID),
	)
	// In a real application you would use an SMTP client like go-mail
	// to send a templated HTML email here.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Verify your email address\nOpen this link to activate your account:\n%s\n\n", user.Email, link)
	return nil
}
