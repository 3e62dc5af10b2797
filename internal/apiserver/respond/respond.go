// Package respond 统一响应信封与集中式错误映射
//
// 成功: {message, statusCode, data?}
// 失败: {message, statusCode, details?, stack?}（stack 仅非生产模式）
//
// 所有领域失败以 *Error 或存储层哨兵错误上抛，由 Err 在边界统一映射，
// handler 不自行拼装错误响应体。
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"pasteleria-api/internal/shared/storage"
)

// Envelope 成功响应信封
type Envelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
}

// errorBody 失败响应信封
type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

// Error 结构化领域错误：携带 HTTP 状态码、消息和可选细节
type Error struct {
	Status  int
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// NewError 创建结构化错误
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// WithDetails 附加细节（如校验失败列表）
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// JSON 写出成功信封
func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Message: message, StatusCode: status, Data: data})
}

// Err 集中错误映射：将领域错误翻译为统一错误信封
//
// debugMode 为 true 时（非生产运行模式）500 响应附带 stack。
func Err(w http.ResponseWriter, err error, debugMode bool) {
	body := errorBody{StatusCode: http.StatusInternalServerError, Message: "internal server error"}

	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		body.StatusCode = appErr.Status
		body.Message = appErr.Message
		body.Details = appErr.Details
	case errors.Is(err, storage.ErrNotFound):
		body.StatusCode = http.StatusNotFound
		body.Message = "resource not found"
	case errors.Is(err, storage.ErrDuplicate):
		body.StatusCode = http.StatusConflict
		body.Message = "duplicate record"
	default:
		log.Printf("[error] unhandled: %v", err)
		if debugMode {
			body.Stack = string(debug.Stack())
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	json.NewEncoder(w).Encode(body)
}
