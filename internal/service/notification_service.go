package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// NotificationService 事件邮件通知，没配 API Key 时整体静默
type NotificationService struct {
	Cfg      *config.MailConfig
	UserRepo *repository.UserRepository
}

func NewNotificationService(cfg *config.Config, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{Cfg: &cfg.Mail, UserRepo: userRepo}
}

// QuizPassed 首次通过测验时的祝贺邮件，调用方负责放到 goroutine 里
func (s *NotificationService) QuizPassed(userID uint, quizTitle string, score int) {
	if s.Cfg.SendGridAPIKey == "" {
		return
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		logger.Log.Warn("notification: user lookup failed", zap.Uint("userId", userID), zap.Error(err))
		return
	}

	from := mail.NewEmail(s.Cfg.FromName, s.Cfg.FromAddress)
	to := mail.NewEmail(user.Name, user.Email)
	subject := fmt.Sprintf("恭喜通过测验：%s", quizTitle)
	body := fmt.Sprintf("你好 %s，\n\n你以 %d 分首次通过了测验「%s」，继续保持！", user.Name, score, quizTitle)

	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(s.Cfg.SendGridAPIKey)

	resp, err := client.Send(message)
	if err != nil {
		logger.Log.Warn("notification: send failed", zap.Error(err))
		return
	}
	if resp.StatusCode >= 400 {
		logger.Log.Warn("notification: sendgrid rejected mail",
			zap.Int("status", resp.StatusCode), zap.String("body", resp.Body))
	}
}
