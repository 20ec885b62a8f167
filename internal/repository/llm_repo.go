package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-monitor/config"
	"golang-monitor/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// LLMRepository proposes human-readable display names for raw SQL field
// names. Callers degrade to the raw names when it fails.
type LLMRepository interface {
	SuggestFieldNames(ctx context.Context, sqlText string, fields []string) (map[string]string, error)
}

type llmRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewLLMRepository(cfg *config.Config, log *logger.Logger) (LLMRepository, error) {
	maxPerMinute := cfg.Gemini.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &llmRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *llmRepository) SuggestFieldNames(ctx context.Context, sqlText string, fields []string) (map[string]string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	prompt := r.promptSuggestFieldNames(sqlText, fields)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send request to gemini", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	names := map[string]string{}
	if err := r.parseResponse(resp, &names); err != nil {
		r.logger.ErrorContext(ctx, "failed to parse response from gemini", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to parse response from gemini: %w", err)
	}
	return names, nil
}

func (r *llmRepository) promptSuggestFieldNames(sqlText string, fields []string) string {
	var sb strings.Builder
	sb.WriteString("You name result columns of monitoring SQL queries.\n")
	sb.WriteString("Given the query and its output fields, propose a short display name for each field.\n")
	sb.WriteString("Respond with a single JSON object mapping field name to display name, nothing else.\n\n")
	sb.WriteString("Query:\n")
	sb.WriteString(sqlText)
	sb.WriteString("\n\nFields: ")
	sb.WriteString(strings.Join(fields, ", "))
	return sb.String()
}

func (r *llmRepository) parseResponse(resp *genai.GenerateContentResponse, dest interface{}) error {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := resp.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	return json.Unmarshal([]byte(jsonString), dest)
}
