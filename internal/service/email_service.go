package service

import (
	"go.uber.org/zap"

	"Buzz_Board/internal/pkg"
)

// EmailService 异步发送欢迎邮件，失败只记录日志
type EmailService struct {
	mailer pkg.Mailer
	log    *zap.Logger
}

// NewEmailService mailer 为 nil 时不发送
func NewEmailService(mailer pkg.Mailer, log *zap.Logger) *EmailService {
	return &EmailService{mailer: mailer, log: log}
}

func (s *EmailService) SendWelcome(to, username string) {
	if s == nil || s.mailer == nil {
		return
	}
	go func() {
		if err := s.mailer.Send(to, "Welcome to BuzzBoard", pkg.WelcomeHTML(username)); err != nil {
			s.log.Warn("welcome email failed", zap.String("to", to), zap.Error(err))
		}
	}()
}
