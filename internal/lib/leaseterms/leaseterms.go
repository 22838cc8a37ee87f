// Package leaseterms извлекает ключевые условия договора аренды из
// распознанного текста: размеры платежей и формулировки политик.
// Разбор намеренно простой, на регулярных выражениях; точность извлечения
// не является целью сервиса.
package leaseterms

import (
	"regexp"
	"strings"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

var (
	rentRe      = regexp.MustCompile(`(?i)rent\s*:?\s*\$?\s*([\d,]+)`)
	termRe      = regexp.MustCompile(`(?i)lease\s*term\s*:?\s*(\d+)\s*(month|year)`)
	depositRe   = regexp.MustCompile(`(?i)security\s*deposit\s*:?\s*\$?\s*([\d,]+)`)
	lateFeeRe   = regexp.MustCompile(`(?i)late\s*fee\s*:?\s*\$?\s*([\d,]+)`)
	noPetsRe    = regexp.MustCompile(`(?i)no\s*pets`)
	petsOKRe    = regexp.MustCompile(`(?i)pets?\s*allowed`)
	noSubletRe  = regexp.MustCompile(`(?i)no\s*subletting`)
	subletOKRe  = regexp.MustCompile(`(?i)subletting\s*allowed`)
)

// Extract возвращает найденные условия; отсутствующие остаются пустыми.
func Extract(text string) models.LeaseTerms {
	var terms models.LeaseTerms

	if m := rentRe.FindStringSubmatch(text); m != nil {
		terms.Rent = stripAmount(m[1])
	}
	if m := termRe.FindStringSubmatch(text); m != nil {
		terms.LeaseTerm = m[1] + " " + m[2] + "(s)"
	}
	if m := depositRe.FindStringSubmatch(text); m != nil {
		terms.SecurityDeposit = stripAmount(m[1])
	}
	if m := lateFeeRe.FindStringSubmatch(text); m != nil {
		terms.LateFees = stripAmount(m[1])
	}

	switch {
	case noPetsRe.MatchString(text):
		terms.Pets = "Not allowed"
	case petsOKRe.MatchString(text):
		terms.Pets = "Allowed with restrictions"
	}

	switch {
	case noSubletRe.MatchString(text):
		terms.Subletting = "Not allowed"
	case subletOKRe.MatchString(text):
		terms.Subletting = "Allowed with restrictions"
	}

	return terms
}

func stripAmount(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
