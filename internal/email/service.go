// Package email sends transactional notifications. Delivery is best effort:
// a failed send is logged and never fails the triggering operation.
package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/careloop/clinic-api/internal/config"
	"github.com/careloop/clinic-api/pkg/logger"
)

type Service struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	log    *logger.Logger
}

func NewService(cfg config.EmailConfig, log *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log,
	}
}

func (s *Service) send(to, subject, body string) {
	if !s.cfg.Enabled {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error(err, "failed to send email", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
	}
}

func (s *Service) SendBookingConfirmation(to, doctorName, date, timeOfDay string) {
	s.send(to, "Appointment confirmed",
		fmt.Sprintf("Your appointment with Dr. %s on %s at %s is confirmed.", doctorName, date, timeOfDay))
}

func (s *Service) SendCancellation(to, date, timeOfDay string) {
	s.send(to, "Appointment cancelled",
		fmt.Sprintf("Your appointment on %s at %s has been cancelled.", date, timeOfDay))
}

func (s *Service) SendLeaveDecision(to, status, startDate, endDate string) {
	s.send(to, "Leave request "+status,
		fmt.Sprintf("Your leave request for %s to %s has been %s.", startDate, endDate, status))
}
