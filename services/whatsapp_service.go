// services/whatsapp_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"skyview-backend/config"
	"skyview-backend/utils"
)

// MessageCreator is the part of the Twilio REST API used here.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppService is built once at startup and is read-only afterwards.
type WhatsAppService struct {
	api         MessageCreator
	from        string
	admin       string
	templateSID string
	countryCode string
}

func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	var api MessageCreator
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		api = client.Api
	}
	return newWhatsAppService(cfg, api)
}

func newWhatsAppService(cfg config.WhatsAppConfig, api MessageCreator) *WhatsAppService {
	s := &WhatsAppService{
		api:         api,
		templateSID: strings.TrimSpace(cfg.TemplateContentSID),
		countryCode: cfg.CountryCode,
	}
	if s.countryCode == "" {
		s.countryCode = "91"
	}
	if cfg.From != "" {
		if from, err := utils.NormalizeWhatsAppNumber(cfg.From, s.countryCode); err == nil {
			s.from = from
		}
	}
	if cfg.AdminPhone != "" {
		if admin, err := utils.NormalizeWhatsAppNumber(cfg.AdminPhone, s.countryCode); err == nil {
			s.admin = admin
		}
	}
	return s
}

// IsConfigured reports whether credentials and a sender address are present.
func (s *WhatsAppService) IsConfigured() bool {
	return s.api != nil && s.from != ""
}

func (s *WhatsAppService) HasTemplate() bool {
	return s.templateSID != ""
}

func (s *WhatsAppService) AdminRecipient() string {
	return s.admin
}

func (s *WhatsAppService) Sender() string {
	return s.from
}

// SendText sends a freeform message and returns the provider message SID.
func (s *WhatsAppService) SendText(ctx context.Context, to, body string) (string, error) {
	params, err := s.params(ctx, to)
	if err != nil {
		return "", err
	}
	params.SetBody(body)
	return s.send(params)
}

// SendTemplate sends the configured content template with the given variables.
func (s *WhatsAppService) SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error) {
	if !s.HasTemplate() {
		return "", ErrNoTemplate
	}
	params, err := s.params(ctx, to)
	if err != nil {
		return "", err
	}
	if vars == nil {
		vars = map[string]string{}
	}
	encoded, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("encode content variables: %w", err)
	}
	params.SetContentSid(s.templateSID)
	params.SetContentVariables(string(encoded))
	return s.send(params)
}

func (s *WhatsAppService) params(ctx context.Context, to string) (*twilioApi.CreateMessageParams, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recipient, err := utils.NormalizeWhatsAppNumber(to, s.countryCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, to)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(s.from)
	return params, nil
}

func (s *WhatsAppService) send(params *twilioApi.CreateMessageParams) (string, error) {
	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
