package apperrors

import (
	"errors"
	"fmt"
)

// Единый набор доменных ошибок. Репозитории и сервисы логируют причину
// на месте и возвращают наверх одну из этих ошибок (через %w).
var (
	ErrNotFound          = errors.New("не найдено")
	ErrAlreadyExists     = errors.New("запись уже существует")
	ErrAlreadySubscribed = errors.New("email уже подписан на рассылку")
	ErrValidation        = errors.New("некорректные данные")
	ErrForbidden         = errors.New("доступ запрещён")
	ErrBackend           = errors.New("ошибка хранилища")
	ErrAuthentication    = errors.New("неверный email или пароль")
	ErrRegistration      = errors.New("ошибка регистрации")
)

// Backend оборачивает ошибку внешнего хранилища (БД, файлы) с указанием операции.
// Исходная причина сохраняется в цепочке для errors.Is/As.
func Backend(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackend, op, err)
}
