package models

import "time"

// LeaseTerms ключевые условия договора аренды, извлечённые регулярными
// выражениями из текста документа. Отсутствующее условие — пустая строка.
type LeaseTerms struct {
	Rent            string `json:"rent,omitempty"`
	LeaseTerm       string `json:"lease_term,omitempty"`
	SecurityDeposit string `json:"security_deposit,omitempty"`
	LateFees        string `json:"late_fees,omitempty"`
	Pets            string `json:"pets,omitempty"`
	Subletting      string `json:"subletting,omitempty"`
}

// Уровни риска условия договора.
const (
	RiskSafe    = "safe"
	RiskCaution = "caution"
	RiskDanger  = "danger"
)

// ClauseAnalysis результат анализа одного условия договора.
type ClauseAnalysis struct {
	ClauseNumber int    `json:"clause_number"`
	ClauseText   string `json:"clause_text"`
	RiskLevel    string `json:"risk_level"`
	Analysis     string `json:"analysis"`
	Suggestion   string `json:"suggestion"`
}

// LeaseAnalysis полный сохранённый результат анализа документа.
// Хранится в Redis под AnalysisID с ограниченным временем жизни.
type LeaseAnalysis struct {
	AnalysisID     string           `json:"analysis_id"`
	UserID         string           `json:"user_id"`
	FullText       string           `json:"full_text"`
	KeyInfo        LeaseTerms       `json:"key_info"`
	Clauses        []ClauseAnalysis `json:"clauses"`
	PageCount      int              `json:"page_count"`
	ProcessingTime float64          `json:"processing_time"`
	CreatedAt      time.Time        `json:"created_at"`
}
