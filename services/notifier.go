package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carwash-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var ErrNotifierDisabled = errors.New("messaging is not configured")

// Notifier pushes a message to a customer or the owner.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
	CountryPrefix  string
}

type TwilioNotifier struct {
	api messageCreator
	cfg TwilioConfig
	log *zap.Logger
}

// NewTwilioNotifier returns a notifier that refuses to send when the account
// credentials are missing.
func NewTwilioNotifier(cfg TwilioConfig, log *zap.Logger) *TwilioNotifier {
	n := &TwilioNotifier{cfg: cfg, log: log.Named("twilio")}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		n.log.Warn("Twilio credentials missing, notifications disabled")
		return n
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	n.api = client.Api
	return n
}

func (n *TwilioNotifier) Enabled() bool {
	return n.api != nil
}

// Send uses WhatsApp for numbers in E.164 form when a WhatsApp sender is
// configured, SMS otherwise. Local 9-digit numbers get the country prefix.
func (n *TwilioNotifier) Send(ctx context.Context, to, body string) error {
	if n.api == nil {
		return ErrNotifierDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to = strings.TrimSpace(to)
	if !strings.HasPrefix(to, "+") {
		digits := DigitsOnly(to)
		if len(digits) == 9 && n.cfg.CountryPrefix != "" {
			to = "+" + n.cfg.CountryPrefix + digits
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	channel := "sms"
	if strings.HasPrefix(to, "+") && n.cfg.WhatsAppNumber != "" {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + n.cfg.WhatsAppNumber)
	} else {
		params.SetTo(to)
		params.SetFrom(n.cfg.PhoneNumber)
	}

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		n.log.Error("failed to send message", zap.String("to", to), zap.String("channel", channel), zap.Error(err))
		return fmt.Errorf("send %s message: %w", channel, err)
	}
	if resp != nil && resp.Sid != nil {
		n.log.Info("message sent", zap.String("to", to), zap.String("channel", channel), zap.String("sid", *resp.Sid))
	} else {
		n.log.Info("message sent without SID", zap.String("to", to), zap.String("channel", channel))
	}
	return nil
}

// ReadyMessage is the pickup notice sent when a ticket reaches READY.
func ReadyMessage(rec models.ServiceRecord, shopName string) string {
	return fmt.Sprintf("Hi %s, your vehicle %s is ready for pickup at %s. Thanks for waiting!",
		rec.CustomerName, rec.Plate, shopName)
}
