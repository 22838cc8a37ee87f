// Package clauserules оценивает риск отдельных условий договора аренды
// по таблицам ключевых слов. Уровни: safe, caution, danger.
package clauserules

import (
	"strings"
	"unicode/utf8"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

var highRiskKeywords = []string{
	"tenant responsible for all",
	"regardless of fault",
	"waive any right",
	"landlord may enter at any time",
	"no refund",
	"tenant liable for",
	"cannot terminate",
	"automatic renewal",
}

var mediumRiskKeywords = []string{
	"late fee",
	"additional charges",
	"landlord discretion",
	"may be charged",
	"tenant must pay",
	"non-refundable",
}

// Analyze возвращает уровень риска, пояснение и рекомендацию для условия.
func Analyze(clauseText string) (riskLevel, analysis, suggestion string) {
	text := strings.ToLower(clauseText)

	for _, kw := range highRiskKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		switch {
		case strings.Contains(text, "all") && (strings.Contains(text, "repair") || strings.Contains(text, "maintenance")):
			return models.RiskDanger,
				"This clause shifts all maintenance responsibility to you, regardless of fault. This is unusual and potentially unfair.",
				"Request to limit your responsibility to damages caused by tenant negligence only. Standard leases don't make tenants responsible for normal wear and tear or structural issues."
		case strings.Contains(text, "enter") && strings.Contains(text, "any time"):
			return models.RiskDanger,
				"This allows landlord unrestricted access to your apartment. Most jurisdictions require 24-48 hours notice except for emergencies.",
				"Request specific language: 'Landlord may enter with 24-48 hours written notice, except in emergencies.'"
		case strings.Contains(text, "waive"):
			return models.RiskDanger,
				"Waiving rights can leave you without legal protection. This type of clause may not be enforceable in many states.",
				"Consult a local tenant rights organization before signing. You may not be able to legally waive certain rights."
		default:
			return models.RiskDanger,
				"This clause contains language that may heavily favor landlord and limit your rights as a tenant.",
				"Have a lawyer review this specific clause before signing, or request it be removed or modified."
		}
	}

	for _, kw := range mediumRiskKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		switch {
		case strings.Contains(text, "late fee"):
			return models.RiskCaution,
				"Late fees are common, but amounts should be reasonable. Check your state's laws on maximum late fee amounts.",
				"Ensure there's a grace period (typically 3-5 days) and that fee doesn't exceed state limits (often $50 or 5% of rent)."
		case strings.Contains(text, "non-refundable"):
			return models.RiskCaution,
				"Non-refundable fees or deposits may not be legal in your state. Security deposits are typically refundable if you leave property in good condition.",
				"Clarify what this fee covers and check local laws. Consider negotiating to make it refundable."
		default:
			return models.RiskCaution,
				"This clause may result in additional costs or give landlord significant discretion. Review carefully.",
				"Ask for specific dollar amounts instead of vague terms like 'additional charges' or 'as determined by landlord.'"
		}
	}

	return models.RiskSafe,
		"This clause appears standard and doesn't contain obvious red flags. However, it's always good to read the full context.",
		"Continue reviewing the complete lease for a comprehensive understanding. Our full analysis can check all clauses together."
}

// Split делит текст документа на условия: по пустым строкам, а если абзацев
// мало — по предложениям. Текст каждого условия ограничен 200 символами.
func Split(fullText string) []string {
	paragraphs := splitNonEmpty(fullText, "\n\n")
	if len(paragraphs) < 5 {
		paragraphs = splitNonEmpty(fullText, ".")
	}

	clauses := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		clauses = append(clauses, truncate(p, 200))
	}
	return clauses
}

// truncate обрезает строку до limit байт, не разрывая UTF-8 последовательность.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
