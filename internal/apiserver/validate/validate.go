// Package validate 请求载荷校验
//
// 基于 go-playground/validator：请求结构体带 validate tag，
// Struct 收集全部失败项（不短路），以 {message, path} 列表返回，
// 由调用方包进单个 400 错误。未知 JSON 字段在解码进类型化结构体时即被丢弃。
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError 单条校验失败：消息 + 字段路径（json 命名，含下标，如 items[0].quantity）
type FieldError struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// 错误路径使用 json tag 字段名而非 Go 字段名
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct 校验 payload 的全部字段，返回所有失败项；nil 表示通过
func Struct(payload any) []FieldError {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Message: err.Error(), Path: ""}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Message: message(fe),
			Path:    path(fe),
		})
	}
	return out
}

// path 去掉 Namespace 最外层的结构体名，保留嵌套路径与下标
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", fe.Field())
	case "email":
		return fmt.Sprintf("the %s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("the %s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s may not exceed %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("the %s may not exceed %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("the %s must be %s or greater", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("the %s must match the %s field", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("the %s must be one of: %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("the %s must be a valid URL", fe.Field())
	case "dive":
		return fmt.Sprintf("the %s contains invalid entries", fe.Field())
	default:
		return fmt.Sprintf("the %s field is invalid", fe.Field())
	}
}
