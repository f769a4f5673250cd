package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"carwash-backend/metrics"
	"carwash-backend/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Messages returned instead of generated text. Callers show them as is.
const (
	ReplyNoAPIKey      = "Error: API key not configured."
	ReplyEmpty         = "Sorry, I could not check the vehicle status."
	ReplyFailed        = "Connection error with the car wash system."
	ReportNoAPIKey     = "Error: API key missing."
	ReportEmpty        = "Could not generate the report."
	ReportFailed       = "Error generating the daily report."
	reportServiceLimit = 10
)

// Assistant drafts chat replies and the daily report. It never fails; problems
// come back as one of the fixed messages above.
type Assistant interface {
	SmartReply(ctx context.Context, messages []models.Message, customerName, plate string, services []models.ServiceRecord) string
	DailyReport(ctx context.Context, snap metrics.Snapshot, services []models.ServiceRecord) string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiAssistant struct {
	gen      contentGenerator
	model    string
	shopName string
	log      *zap.Logger
}

// NewGeminiAssistant returns an assistant that answers with the fixed
// "not configured" messages when apiKey is empty.
func NewGeminiAssistant(ctx context.Context, apiKey, model, shopName string, log *zap.Logger) (*GeminiAssistant, error) {
	a := &GeminiAssistant{model: model, shopName: shopName, log: log.Named("assistant")}
	if strings.TrimSpace(apiKey) == "" {
		a.log.Warn("no Gemini API key, assistant disabled")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.gen = client.Models
	return a, nil
}

func (a *GeminiAssistant) SmartReply(ctx context.Context, messages []models.Message, customerName, plate string, services []models.ServiceRecord) string {
	if a.gen == nil {
		return ReplyNoAPIKey
	}

	var history strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&history, "%s: %s\n", strings.ToUpper(string(m.Sender)), m.Content)
	}
	serviceContext := "No active services found for this plate or name."
	if len(services) > 0 {
		if raw, err := json.Marshal(services); err == nil {
			serviceContext = string(raw)
		}
	}
	if plate == "" {
		plate = "not detected"
	}

	prompt := fmt.Sprintf(`Act as "AutoBot", the virtual assistant of %q.

Context:
- We are a car wash and detailing shop.
- Goal: tell customers how their car is doing and book services.

Customer:
Name: %s
Detected plate: %s
Service history (JSON): %s

Chat history:
%s
Instructions:
1. CAR STATUS: if they ask whether the car is ready, check the JSON.
   - READY: tell them they can come pick it up.
   - IN_PROCESS: ask for a little patience.
   - WAITING: say it will enter the wash shortly.
2. With no active service, offer prices (Basic Wash %s, Premium Wash %s).
3. TONE: friendly, quick and helpful.
4. If the car is ready, remind them we accept mobile payments.
5. Return only the reply text.`,
		a.shopName, customerName, plate, serviceContext, history.String(),
		formatPrice(models.ServiceBasic.ListPrice()), formatPrice(models.ServicePremium.ListPrice()))

	return a.generate(ctx, "smart_reply", prompt, ReplyEmpty, ReplyFailed)
}

func (a *GeminiAssistant) DailyReport(ctx context.Context, snap metrics.Snapshot, services []models.ServiceRecord) string {
	if a.gen == nil {
		return ReportNoAPIKey
	}

	if len(services) > reportServiceLimit {
		services = services[:reportServiceLimit]
	}
	snapJSON, _ := json.MarshalIndent(snap, "", "  ")
	servicesJSON, _ := json.MarshalIndent(services, "", "  ")

	prompt := fmt.Sprintf(`Write a daily operations report for %q.

Today's metrics:
%s

Today's services:
%s

Report structure (Markdown):
# Daily Report - %s
## Executive summary
(Short analysis of car flow and billing)

## Operational efficiency
- Cars washed today: [value]
- Average time: [value]
- Bottlenecks detected (if many cars are waiting)

## Finances
- Estimated revenue: [value]
- Outstanding debts: [value]

## Recommendations
(Suggestions to improve tomorrow's wash flow)`,
		a.shopName, snapJSON, servicesJSON, a.shopName)

	return a.generate(ctx, "daily_report", prompt, ReportEmpty, ReportFailed)
}

func (a *GeminiAssistant) generate(ctx context.Context, op, prompt, empty, failed string) string {
	resp, err := a.gen.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		a.log.Error("generation failed", zap.String("op", op), zap.Error(err))
		return failed
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		a.log.Warn("generation returned no text", zap.String("op", op))
		return empty
	}
	return text
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.0f", p)
}
