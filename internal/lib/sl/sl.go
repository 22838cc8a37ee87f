// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразное формирование структурированных полей лога
// во всех обработчиках и сервисах приложения.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to process webhook", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret возвращает slog.Attr, отмечающий лишь факт наличия секрета.
// Само значение секрета в лог не попадает никогда.
func Secret(key string, value string) slog.Attr {
	return slog.Attr{
		Key:   key,
		Value: slog.BoolValue(value != ""),
	}
}
