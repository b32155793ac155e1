package translate

import (
	"context"
	"time"

	"stayhub_backend/internal/models"
)

// Gateway оборачивает внешний переводчик политикой чата:
// направление перевода, ограничение параллелизма и timeout.
// Перевод - самый медленный шаг конвейера сообщений, поэтому число
// одновременных вызовов ограничено семафором.
type Gateway struct {
	translator  Translator
	defaultLang string
	timeout     time.Duration
	sem         chan struct{}
}

func NewGateway(translator Translator, defaultLang string, timeout time.Duration, maxWorkers int) *Gateway {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Gateway{
		translator:  translator,
		defaultLang: defaultLang,
		timeout:     timeout,
		sem:         make(chan struct{}, maxWorkers),
	}
}

// DefaultLang - рабочий язык персонала
func (g *Gateway) DefaultLang() string {
	return g.defaultLang
}

// TargetFor определяет направление перевода для сообщения.
// Если язык гостя совпадает с языком персонала - перевод не нужен.
// Персонал пишет гостю на языке гостя, гость пишет персоналу на
// языке персонала.
func (g *Gateway) TargetFor(senderRole models.UserRole, guestLang string) (string, bool) {
	if guestLang == "" || guestLang == g.defaultLang {
		return "", false
	}
	if senderRole.IsStaff() {
		return guestLang, true
	}
	return g.defaultLang, true
}

// Translate выполняет перевод под семафором с ограниченным timeout.
// Ошибка перевода никогда не блокирует доставку сообщения - caller
// сохраняет сообщение без перевода.
func (g *Gateway) Translate(ctx context.Context, text, targetLang string) (string, error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-g.sem }()

	tctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return g.translator.Translate(tctx, text, targetLang)
}
