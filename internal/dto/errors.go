package dto

// BaseError универсальный корневой формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание
// Details — дополнительная строка (пояснение, список id)
// Fields — для валидационных ошибок (имя поля + текст)
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError отдельная ошибка по конкретному полю
// Field: путь к полю (например: "email" или "items[0].quantity")
// Tag: исходное правило (required/email/gt)
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// Семантические обёртки для @Failure в swagger, JSON у всех одинаковый.

// ValidationErrorResponse 400
// Code: "validation_error"
type ValidationErrorResponse BaseError

// EmptyOrderErrorResponse 400
// Code: "empty_order"
type EmptyOrderErrorResponse BaseError

// NotFoundErrorResponse 404
// Code: "not_found"
type NotFoundErrorResponse BaseError

// ConflictErrorResponse 409
// Пример: email уже занят
// Code: "conflict"
type ConflictErrorResponse BaseError

// InvalidReferenceErrorResponse 422
// Пример: заказ ссылается на несуществующий товар
// Code: "invalid_reference"
type InvalidReferenceErrorResponse BaseError

// InternalErrorResponse 500
// Code: "internal_error"
type InternalErrorResponse BaseError

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Code: "validation_error", Message: msg, Fields: fields})
}
func NewEmptyOrderError(msg string) EmptyOrderErrorResponse {
	return EmptyOrderErrorResponse(BaseError{Code: "empty_order", Message: msg})
}
func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Code: "not_found", Message: msg})
}
func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Code: "conflict", Message: msg})
}
func NewInvalidReferenceError(msg, details string) InvalidReferenceErrorResponse {
	return InvalidReferenceErrorResponse(BaseError{Code: "invalid_reference", Message: msg, Details: details})
}
func NewInternalError(details string) InternalErrorResponse {
	return InternalErrorResponse(BaseError{Code: "internal_error", Message: "internal server error", Details: details})
}
