package validator

import (
	"log"

	"stayhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - критическая, не запускаемся
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)

	// 'is-notification-type': тип уведомления валиден
	mustRegister("is-notification-type", validateNotificationType)

	// 'is-lang-code': код языка в формате "EN", "KO", ...
	mustRegister("is-lang-code", validateLangCode)
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения обрабатывает 'required'
	}

	switch models.UserRole(value) {
	case models.UserRoleGeneral, models.UserRoleAdmin, models.UserRoleManager, models.UserRoleTemp:
		return true
	default:
		return false
	}
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotificationType(value).Valid()
}

func validateLangCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 2 {
		return false
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
