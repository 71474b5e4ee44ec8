package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Business logic errors
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// AppError is a structured application error. Message is the machine-facing
// description; UserMessage is the localized text surfaced to end users.
type AppError struct {
	Code        string      `json:"code"`
	Message     string      `json:"message"`
	UserMessage string      `json:"user_message,omitempty"`
	Details     interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return e.Message
}

// New creates a new AppError
func New(code, message, userMessage string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: userMessage,
	}
}

// Predefined ambient errors
var (
	ErrUnauthorized = New(ErrCodeUnauthorized, "authentication required", "Autenticação necessária")
	ErrForbidden    = New(ErrCodeForbidden, "access denied", "Acesso negado")
	ErrNotFound     = New(ErrCodeNotFound, "resource not found", "Registro não encontrado")
	ErrInvalidInput = New(ErrCodeInvalidInput, "invalid request body", "Requisição inválida")
)

// Predefined domain errors
var (
	ErrDuplicateAssignment = New(ErrCodeAlreadyExists,
		"duplicateAssignment",
		"Este colaborador já possui uma atribuição nesta tarefa")

	ErrDeleteAssignmentWithTrackers = New(ErrCodeConflict,
		"deleteAssignmentWithTrackers",
		"A atribuição não pode ser excluída enquanto possuir registros de tempo")

	ErrOpenAssignmentInClosedTask = New(ErrCodeInvalidOperation,
		"openAssignmentInCloseTask",
		"A atribuição não pode ser reaberta, tarefas dependentes já foram iniciadas")

	ErrCloseAssignmentWithoutTrackers = New(ErrCodeInvalidOperation,
		"closeAssignmentWithoutTrackers",
		"A atribuição não pode ser fechada sem registros de tempo")

	ErrCloseAssignmentWithOpenTracker = New(ErrCodeInvalidOperation,
		"closeAssignmentWithOpenTracker",
		"A atribuição possui um registro de tempo aberto há mais de 12 horas")

	ErrChangeStatusFromAnotherUser = New(ErrCodeForbidden,
		"changeStatusAssignmentFromAnotherUser",
		"Não é possível alterar o status da atribuição de outro colaborador")

	ErrPersonalAccessAnotherUser = New(ErrCodeForbidden,
		"personalAccessAnotherUser",
		"Não é possível acessar a atribuição de outro colaborador")

	ErrDeleteTaskWithAssignments = New(ErrCodeConflict,
		"deleteTaskWithAssignments",
		"A tarefa não pode ser excluída enquanto possuir atribuições")

	ErrDeleteCollaboratorWithAssignments = New(ErrCodeConflict,
		"deleteCollaboratorWithAssignments",
		"O colaborador não pode ser excluído enquanto possuir atribuições")
)

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *AppError) {
	c.JSON(statusCode, err)
}

// statusOf maps an error code to an HTTP status.
func statusOf(code string) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidInput, ErrCodeInvalidOperation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond maps any error to an HTTP response: AppErrors keep their code and
// localized message, anything else becomes a 500.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondWithError(c, statusOf(appErr.Code), appErr)
		return
	}
	RespondWithError(c, http.StatusInternalServerError,
		New(ErrCodeInternalError, "internal server error", "Erro interno do servidor"))
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, New(ErrCodeUnauthorized, message, "Autenticação necessária"))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	RespondWithError(c, http.StatusForbidden, New(ErrCodeForbidden, message, "Acesso negado"))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	RespondWithError(c, http.StatusNotFound, New(ErrCodeNotFound, message, "Registro não encontrado"))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, New(ErrCodeInvalidInput, message, "Requisição inválida"))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}
	RespondWithError(c, http.StatusConflict, New(ErrCodeConflict, message, "Conflito de dados"))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, New(ErrCodeInternalError, message, "Erro interno do servidor"))
}
