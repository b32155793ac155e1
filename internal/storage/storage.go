package storage

import (
	"context"
	"io"
)

// Storage - файловое хранилище вложений чата.
type Storage interface {
	// Save сохраняет файл по относительному пути
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get открывает файл на чтение
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete удаляет файл; отсутствующий файл - не ошибка
	Delete(ctx context.Context, path string) error

	// Exists проверяет наличие файла
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL файла
	GetURL(ctx context.Context, path string) (string, error)

	// GetSize возвращает размер файла в байтах
	GetSize(ctx context.Context, path string) (int64, error)
}
