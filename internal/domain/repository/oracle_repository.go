package repository

import "context"

// LanguageModelRepository - языковая модель, превращающая инструкцию в текст ответа
type LanguageModelRepository interface {
	// Complete возвращает сырой текст ответа на prompt
	Complete(ctx context.Context, prompt string) (string, error)
}
