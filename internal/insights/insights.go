// Package insights asks a language model for a short reading of a month's finances.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/report"
	"fjacquet/finance-peres/internal/syncerror"

	"golang.org/x/time/rate"
)

// ErrDisabled is returned when no generator is configured.
var ErrDisabled = errors.New("AI insights are disabled")

// Service builds prompts from monthly aggregates and parses model answers.
type Service struct {
	generator Generator
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    logging.Logger
}

// NewService creates a service allowing requestsPerMinute calls. A nil
// generator yields a service whose every call returns ErrDisabled.
func NewService(generator Generator, requestsPerMinute int, timeout time.Duration, logger logging.Logger) *Service {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Service{
		generator: generator,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		timeout:   timeout,
		logger:    logger.WithField(logging.FieldComponent, "insights"),
	}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool {
	return s.generator != nil
}

// Insights analyses records, which are expected to belong to (year, month).
// title is the human month label.
func (s *Service) Insights(ctx context.Context, title string, records []models.Transaction, year int, month time.Month) (models.FinancialInsight, error) {
	if !s.Enabled() {
		return models.FinancialInsight{}, ErrDisabled
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return models.FinancialInsight{}, fmt.Errorf("insights rate limit: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(title, report.Summarize(records, year, month))
	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Error("Insight generation failed")
		return models.FinancialInsight{}, err
	}

	insight, err := ParseInsight(raw)
	if err != nil {
		return models.FinancialInsight{}, err
	}
	s.logger.Debug("Generated insights",
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
		logging.F("alert_level", string(insight.AlertLevel)))
	return insight, nil
}

// BuildPrompt describes the month to the model.
func BuildPrompt(title string, s report.Summary) string {
	categories := make(map[string]float64, len(s.Categories))
	for _, c := range s.Categories {
		categories[c.Category] = c.Total.InexactFloat64()
	}
	breakdown, _ := json.Marshal(categories)

	return fmt.Sprintf(`Analise as seguintes finanças pessoais do mês de %s:
- Total de Receita: R$ %s
- Total de Despesas: R$ %s
- Total Investido: R$ %s
- Saldo: R$ %s
- Gastos por Categoria: %s

Por favor, forneça um resumo amigável e 3 recomendações acionáveis para melhorar a saúde financeira.`,
		title,
		s.Income.StringFixed(2),
		s.Expense.StringFixed(2),
		s.Investment.StringFixed(2),
		s.Balance.StringFixed(2),
		breakdown)
}

// ParseInsight decodes a model answer, tolerating markdown code fences.
// A missing or unknown alert level is read as medium.
func ParseInsight(raw string) (models.FinancialInsight, error) {
	clean := cleanModelJSON(raw)

	var insight models.FinancialInsight
	if err := json.Unmarshal([]byte(clean), &insight); err != nil {
		return models.FinancialInsight{}, &syncerror.PayloadError{
			Reason:  fmt.Sprintf("invalid insight JSON: %v", err),
			Snippet: syncerror.Snippet([]byte(raw), 120),
		}
	}
	if strings.TrimSpace(insight.Summary) == "" {
		return models.FinancialInsight{}, &syncerror.PayloadError{Reason: "insight summary is empty"}
	}

	insight.AlertLevel = models.AlertLevel(strings.ToLower(strings.TrimSpace(string(insight.AlertLevel))))
	if !insight.AlertLevel.Valid() {
		insight.AlertLevel = models.AlertMedium
	}
	if insight.Recommendations == nil {
		insight.Recommendations = []string{}
	}
	return insight, nil
}

// cleanModelJSON strips ```json fences and any prose around the object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
