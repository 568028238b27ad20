// Package knowledge answers on-domain questions that fall outside the
// booking flow, backed by a generative model. Lookups are best-effort: a
// slow or failing backend degrades to ErrUnavailable and the conversation
// state is never touched.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"glowbook/models"
)

var ErrUnavailable = errors.New("knowledge: backend unavailable")

// Query carries the question plus enough conversation context for an
// on-brand answer.
type Query struct {
	Question string
	Language string
	State    models.ConversationState
	Summary  map[string]string
}

// Service answers domain questions. Answer must respect ctx cancellation.
type Service interface {
	Answer(ctx context.Context, q Query) (string, error)
}

// GeminiService is the production implementation over the Gemini API.
type GeminiService struct {
	model   *genai.GenerativeModel
	catalog models.ServiceCatalog
	timeout time.Duration
}

// NewGeminiService dials the Gemini backend. The timeout bounds every
// Answer call regardless of the caller's context.
func NewGeminiService(apiKey string, catalog models.ServiceCatalog, timeout time.Duration) (*GeminiService, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-flash")
	return &GeminiService{model: model, catalog: catalog, timeout: timeout}, nil
}

func (s *GeminiService) Answer(ctx context.Context, q Query) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(s.prompt(q)))
	if err != nil {
		zap.L().Warn("knowledge lookup failed", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrUnavailable
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", ErrUnavailable
	}
	return answer, nil
}

// prompt frames the question with the catalog and the in-progress booking
// so answers stay grounded in what we actually sell.
func (s *GeminiService) prompt(q Query) string {
	var sb strings.Builder
	sb.WriteString("You are the assistant of a makeup service studio. ")
	sb.WriteString("Answer briefly and only about our services.\n\nServices:\n")
	for _, svc := range s.catalog.Services {
		sb.WriteString("- " + svc.Name + ": " + svc.Description + "\n")
		for _, pkg := range svc.Packages {
			sb.WriteString("  * " + pkg.Name + " (" + pkg.Price + ")\n")
		}
	}
	if len(q.Summary) > 0 {
		sb.WriteString("\nThe customer has an in-progress booking:\n")
		for k, v := range q.Summary {
			sb.WriteString("- " + k + ": " + v + "\n")
		}
	}
	if q.Language != "" && q.Language != "en" {
		sb.WriteString("\nReply in language code: " + q.Language + "\n")
	}
	sb.WriteString("\nCustomer question: " + q.Question + "\n")
	return sb.String()
}
