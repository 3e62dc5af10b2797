package validate

import (
	"strings"
	"testing"
)

type registerPayload struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type itemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type orderPayload struct {
	Items []itemPayload `json:"items" validate:"required,min=1,dive"`
	Notes string        `json:"notes" validate:"max=10"`
}

func TestStruct_Valid(t *testing.T) {
	p := registerPayload{
		Name:            "Juan Pérez",
		Email:           "juan@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
	if errs := Struct(p); errs != nil {
		t.Errorf("Struct(valid) = %+v, 期望 nil", errs)
	}
}

// TestStruct_CollectsAllFailures 校验不在首个失败处短路
func TestStruct_CollectsAllFailures(t *testing.T) {
	p := registerPayload{
		Name:            "J",
		Email:           "not-an-email",
		Password:        "123",
		ConfirmPassword: "456",
	}
	errs := Struct(p)
	if len(errs) != 4 {
		t.Fatalf("失败项数量 = %d, 期望 4: %+v", len(errs), errs)
	}

	byPath := make(map[string]string)
	for _, e := range errs {
		byPath[e.Path] = e.Message
	}
	for _, path := range []string{"name", "email", "password", "confirmPassword"} {
		if byPath[path] == "" {
			t.Errorf("缺少字段 %q 的失败项: %+v", path, errs)
		}
	}
}

// TestStruct_PathUsesJSONNames 错误路径使用 json tag 字段名
func TestStruct_PathUsesJSONNames(t *testing.T) {
	p := itemPayload{Quantity: 1}
	errs := Struct(p)
	if len(errs) != 1 {
		t.Fatalf("失败项数量 = %d, 期望 1", len(errs))
	}
	if errs[0].Path != "productId" {
		t.Errorf("path = %q, 期望 productId（json 命名，非 Go 字段名）", errs[0].Path)
	}
}

// TestStruct_NestedSlicePath 嵌套切片失败项路径带下标
func TestStruct_NestedSlicePath(t *testing.T) {
	p := orderPayload{
		Items: []itemPayload{
			{ProductID: "prd-1", Quantity: 2},
			{ProductID: "", Quantity: 0},
		},
	}
	errs := Struct(p)
	if len(errs) != 2 {
		t.Fatalf("失败项数量 = %d, 期望 2: %+v", len(errs), errs)
	}

	for _, e := range errs {
		if !strings.HasPrefix(e.Path, "items[1].") {
			t.Errorf("path = %q, 期望以 items[1]. 开头", e.Path)
		}
	}
}

func TestStruct_EmptyItems(t *testing.T) {
	p := orderPayload{Items: []itemPayload{}}
	errs := Struct(p)
	if len(errs) != 1 {
		t.Fatalf("失败项数量 = %d, 期望 1: %+v", len(errs), errs)
	}
	if errs[0].Path != "items" {
		t.Errorf("path = %q, 期望 items", errs[0].Path)
	}
}

func TestStruct_MessageWording(t *testing.T) {
	p := registerPayload{
		Name:            "Juan",
		Email:           "juan@example.com",
		Password:        "123",
		ConfirmPassword: "123",
	}
	errs := Struct(p)
	if len(errs) != 1 {
		t.Fatalf("失败项数量 = %d, 期望 1: %+v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, "at least 6 characters") {
		t.Errorf("message = %q, 期望包含 'at least 6 characters'", errs[0].Message)
	}
}
