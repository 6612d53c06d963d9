package notifications

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/antipiracy/exposure-dashboard/internal/metrics"
	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const (
	channelRelay = "relay"
	channelSMTP  = "smtp"
)

// mailSender is satisfied by *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service sends deliveries over the configured channels
type Service struct {
	config  *config.Config
	client  *resty.Client
	mailer  mailSender
	metrics *metrics.Metrics
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// RelayMessage is the JSON body accepted by the email relay endpoint
type RelayMessage struct {
	Recipients         string `json:"recipients"`
	CC                 string `json:"cc,omitempty"`
	Subject            string `json:"subject"`
	MessageContent     string `json:"message_content"`
	AttachmentContent  string `json:"attachment_content,omitempty"`
	AttachmentFilename string `json:"attachment_filename,omitempty"`
	FunctionName       string `json:"function_name"`
	VerifyString       string `json:"verify_string"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		config:  cfg,
		client:  resty.New().SetTimeout(30 * time.Second),
		mailer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		metrics: m,
	}
}

// SendReport delivers through every configured channel. Failures of
// individual channels are joined into the returned error.
func (s *Service) SendReport(ctx context.Context, delivery *models.Delivery) error {
	if delivery == nil {
		return fmt.Errorf("delivery is required")
	}
	if !s.config.RelayEnabled() && !s.config.SMTPEnabled() {
		return fmt.Errorf("no notification channel is configured")
	}

	htmlBody, err := buildEmailHTML(delivery)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	var errs []error

	if s.config.RelayEnabled() {
		err := s.sendToRelay(ctx, delivery, htmlBody)
		s.metrics.ObserveDelivery(channelRelay, err)
		if err != nil {
			logrus.WithField("channel", channelRelay).Errorf("Failed to send %s: %v", delivery.Kind, err)
			errs = append(errs, fmt.Errorf("relay: %w", err))
		} else {
			logrus.WithField("channel", channelRelay).Infof("Successfully sent %s", delivery.Kind)
		}
	}

	if s.config.SMTPEnabled() {
		err := s.sendEmail(delivery, htmlBody)
		s.metrics.ObserveDelivery(channelSMTP, err)
		if err != nil {
			logrus.WithField("channel", channelSMTP).Errorf("Failed to send %s: %v", delivery.Kind, err)
			errs = append(errs, fmt.Errorf("email: %w", err))
		} else {
			logrus.WithField("channel", channelSMTP).Infof("Successfully sent %s", delivery.Kind)
		}
	}

	return errors.Join(errs...)
}

func (s *Service) sendToRelay(ctx context.Context, delivery *models.Delivery, htmlBody string) error {
	message := s.buildRelayMessage(delivery, htmlBody)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.EmailRelayURL)

	if err != nil {
		return fmt.Errorf("failed to post to email relay: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("email relay returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildRelayMessage(delivery *models.Delivery, htmlBody string) *RelayMessage {
	message := &RelayMessage{
		Recipients:     strings.Join(s.config.Recipients.To, ","),
		CC:             strings.Join(s.config.Recipients.CC, ","),
		Subject:        delivery.Subject,
		MessageContent: htmlBody,
		FunctionName:   s.config.EmailRelayFunction,
		VerifyString:   s.config.EmailRelayVerify,
	}

	if a := delivery.Attachment; a != nil {
		message.AttachmentContent = base64.StdEncoding.EncodeToString(a.Content)
		message.AttachmentFilename = a.Filename
	}

	return message
}

func (s *Service) sendEmail(delivery *models.Delivery, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPFrom)
	m.SetHeader("To", s.config.Recipients.To...)
	if len(s.config.Recipients.CC) > 0 {
		m.SetHeader("Cc", s.config.Recipients.CC...)
	}
	m.SetHeader("Subject", delivery.Subject)
	m.SetBody("text/plain", buildEmailText(delivery))
	m.AddAlternative("text/html", htmlBody)

	if a := delivery.Attachment; a != nil {
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
