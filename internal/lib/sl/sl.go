// Package sl вспомогательные функции для структурированного логирования
// через slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки, чтобы ошибки
// во всех логах выглядели одинаково.
//
//	log.Error("failed to fetch services", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
