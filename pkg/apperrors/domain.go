package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок.
Сервисы возвращают их напрямую, хэндлеры и ws-клиенты превращают
в HTTP-ответ или error-фрейм.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrDatabase - фабрика для ошибок хранилища (500)
func ErrDatabase(err error, domain string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, "Storage operation failed", http.StatusInternalServerError)
}

// ErrExternalService - фабрика для ошибок внешних сервисов (502)
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// --- Чат ---

// ErrInactiveRoomWrite - запись в деактивированную (после чек-аута) комнату
var ErrInactiveRoomWrite = New(
	CodeInactiveRoomWrite,
	"chat",
	"Chat room is inactive, new messages are not accepted",
	http.StatusConflict,
)

// ErrRoomNotFound - комната чата не найдена
var ErrRoomNotFound = New(
	CodeNotFound,
	"chat",
	"Chat room not found",
	http.StatusNotFound,
)

// --- Перевод ---

// ErrTranslationUnavailable - перевод недоступен; сообщение все равно доставляется
func ErrTranslationUnavailable(err error) *AppError {
	return Wrap(err, CodeTranslationUnavailable, "translation", "Translation service unavailable", http.StatusBadGateway)
}

// --- Авторизация ---

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidCredentials - неверная пара email/пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)
