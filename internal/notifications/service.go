// Package notifications delivers breaking-news alerts to the configured
// channels.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

// Service fans an alert out to every configured channel: Telegram, a generic
// JSON webhook, and email. One failing channel does not stop the others.
type Service struct {
	config *config.Config
	client *resty.Client
	bot    *tgbotapi.BotAPI // created lazily on first Telegram send
}

var _ Sender = (*Service)(nil)

// NewService creates a notification service for the configured channels.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Send implements Sender.
func (s *Service) Send(alert models.Alert) error {
	var errs []string

	if s.config.TelegramBotToken != "" && s.config.TelegramChatID != 0 {
		if err := s.sendTelegram(alert); err != nil {
			logrus.Errorf("Failed to send Telegram alert: %v", err)
			errs = append(errs, fmt.Sprintf("telegram: %v", err))
		} else {
			logrus.Info("Sent alert to Telegram")
		}
	}

	if s.config.AlertWebhookURL != "" {
		if err := s.sendWebhook(alert); err != nil {
			logrus.Errorf("Failed to send webhook alert: %v", err)
			errs = append(errs, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Sent alert to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(alert); err != nil {
			logrus.Errorf("Failed to send email alert: %v", err)
			errs = append(errs, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Sent alert via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("alert send failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RenderMessage formats the alert body shared by Telegram and email.
func RenderMessage(alert models.Alert) string {
	title := alert.Title
	if alert.URL != "" {
		title = fmt.Sprintf("[%s](%s)", alert.Title, alert.URL)
	}
	return fmt.Sprintf("🚨 *Breaking:* %s\nSource: %s • %s UTC",
		title, alert.SourceName, alert.At.UTC().Format("15:04"))
}

func (s *Service) sendTelegram(alert models.Alert) error {
	if s.bot == nil {
		bot, err := tgbotapi.NewBotAPI(s.config.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		s.bot = bot
	}

	msg := tgbotapi.NewMessage(s.config.TelegramChatID, RenderMessage(alert))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (s *Service) sendWebhook(alert models.Alert) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(alert).
		Post(s.config.AlertWebhookURL)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) sendEmail(alert models.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Breaking: %s", alert.Title))

	body := fmt.Sprintf("%s\n\nSource: %s\nTime: %s UTC\n",
		alert.Title, alert.SourceName, alert.At.UTC().Format("2006-01-02 15:04"))
	if alert.URL != "" {
		body += alert.URL + "\n"
	}
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
