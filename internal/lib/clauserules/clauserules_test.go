package clauserules

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		clause     string
		wantRisk   string
		wantPhrase string
	}{
		{
			name:       "перенос всех обязанностей по ремонту",
			clause:     "Tenant responsible for all repairs and maintenance regardless of cause.",
			wantRisk:   models.RiskDanger,
			wantPhrase: "maintenance responsibility",
		},
		{
			name:       "вход арендодателя в любое время",
			clause:     "Landlord may enter at any time without prior notice.",
			wantRisk:   models.RiskDanger,
			wantPhrase: "unrestricted access",
		},
		{
			name:       "отказ от прав",
			clause:     "Tenant agrees to waive any right to trial by jury.",
			wantRisk:   models.RiskDanger,
			wantPhrase: "legal protection",
		},
		{
			name:       "автоматическое продление",
			clause:     "This lease is subject to automatic renewal for successive terms.",
			wantRisk:   models.RiskDanger,
			wantPhrase: "favor landlord",
		},
		{
			name:       "пеня за просрочку",
			clause:     "A late fee of $75 applies after the 3rd day of the month.",
			wantRisk:   models.RiskCaution,
			wantPhrase: "grace period",
		},
		{
			name:       "невозвратный сбор",
			clause:     "A non-refundable cleaning fee of $300 is due at signing.",
			wantRisk:   models.RiskCaution,
			wantPhrase: "refundable",
		},
		{
			name:       "расплывчатые дополнительные платежи",
			clause:     "Additional charges may apply at landlord discretion.",
			wantRisk:   models.RiskCaution,
			wantPhrase: "additional costs",
		},
		{
			name:       "нейтральное условие",
			clause:     "Rent is due on the first day of each month.",
			wantRisk:   models.RiskSafe,
			wantPhrase: "standard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, analysis, suggestion := Analyze(tt.clause)
			assert.Equal(t, tt.wantRisk, risk)
			assert.Contains(t, strings.ToLower(analysis+suggestion), tt.wantPhrase)
			assert.NotEmpty(t, suggestion)
		})
	}
}

func TestSplit(t *testing.T) {
	t.Run("деление по абзацам", func(t *testing.T) {
		text := "Clause one.\n\nClause two.\n\nClause three.\n\nClause four.\n\nClause five.\n\nClause six."
		clauses := Split(text)
		assert.Len(t, clauses, 6)
		assert.Equal(t, "Clause one.", clauses[0])
	})

	t.Run("переход на предложения при малом числе абзацев", func(t *testing.T) {
		text := "First sentence. Second sentence. Third sentence."
		clauses := Split(text)
		assert.Len(t, clauses, 3)
		assert.Equal(t, "First sentence", clauses[0])
	})

	t.Run("длинное условие обрезается до 200 символов", func(t *testing.T) {
		long := strings.Repeat("a", 300) + "\n\n" + strings.Repeat("b", 100) +
			"\n\nc\n\nd\n\ne\n\nf"
		clauses := Split(long)
		assert.Equal(t, 200, len(clauses[0]))
	})

	t.Run("обрезка не разрывает многобайтовую руну", func(t *testing.T) {
		// Кириллица — два байта на символ, граница 200 попадает внутрь руны
		long := strings.Repeat("a", 199) + strings.Repeat("ж", 50) +
			"\n\nb\n\nc\n\nd\n\ne\n\nf"
		clauses := Split(long)
		assert.True(t, utf8.ValidString(clauses[0]))
		assert.LessOrEqual(t, len(clauses[0]), 200)
	})

	t.Run("пустой текст", func(t *testing.T) {
		assert.Empty(t, Split("   \n \n  "))
	})
}
