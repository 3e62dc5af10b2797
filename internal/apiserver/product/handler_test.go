// Package product 产品目录 - Handler 单元测试
//
// 测试类型：Unit Test（使用 Mock 隔离存储层）
package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pasteleria-api/internal/apiserver/auth"
	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage"
)

var testAuthCfg = auth.Config{JWTSecret: "test-secret-key", TokenTTL: time.Hour}

// ============================================================================
// Mock 实现（实现 product.Store 与 auth.UserStore 接口）
// ============================================================================

type mockStore struct {
	products map[string]*model.Product
	users    map[string]*model.User

	lastFilter storage.ProductFilter

	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		products: make(map[string]*model.Product),
		users:    make(map[string]*model.User),
	}
}

func (m *mockStore) CreateProduct(ctx context.Context, p *model.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.products[id], nil
}

func (m *mockStore) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*model.Product, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	m.lastFilter = filter

	var result []*model.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func (m *mockStore) UpdateProduct(ctx context.Context, p *model.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.products[p.ID] = p
	return nil
}

// auth.UserStore（认证中间件需要）
func (m *mockStore) CreateUser(ctx context.Context, u *model.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockStore) UpdateUser(ctx context.Context, u *model.User) error {
	m.users[u.ID] = u
	return nil
}

// ============================================================================
// 测试基建
// ============================================================================

func newTestMux(store *mockStore) *http.ServeMux {
	mw := auth.NewMiddleware(store, testAuthCfg, true)
	handler := NewHandler(store, true)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, mw)
	return mux
}

func adminToken(t *testing.T, store *mockStore) string {
	t.Helper()
	store.users["usr-admin"] = &model.User{
		ID: "usr-admin", Name: "Admin", Email: "admin@example.com",
		Role: model.UserRoleAdmin, IsActive: true,
	}
	token, err := auth.GenerateToken(testAuthCfg, "usr-admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func customerToken(t *testing.T, store *mockStore) string {
	t.Helper()
	store.users["usr-cust"] = &model.User{
		ID: "usr-cust", Name: "Cliente", Email: "cliente@example.com",
		Role: model.UserRoleCustomer, IsActive: true,
	}
	token, err := auth.GenerateToken(testAuthCfg, "usr-cust", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func addProduct(store *mockStore, id, name string, category model.ProductCategory, price float64, stock int, active bool) {
	store.products[id] = &model.Product{
		ID: id, Name: name, Category: category,
		Price: price, Stock: stock, IsActive: active,
	}
}

func doJSON(mux *http.ServeMux, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// ============================================================================
// List
// ============================================================================

// TestList_DefaultsToActiveOnly active 参数缺省时公开目录只含活跃产品
func TestList_DefaultsToActiveOnly(t *testing.T) {
	store := newMockStore()
	addProduct(store, "prd-1", "Empanada de Manzana", model.CategoryTradicional, 3.00, 300, true)
	addProduct(store, "prd-2", "Producto Retirado", model.CategoryTradicional, 5.00, 10, false)
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200", w.Code)
	}

	var result struct {
		Data struct {
			Items []*model.Product `json:"items"`
			Total int64            `json:"total"`
		} `json:"data"`
	}
	json.NewDecoder(w.Body).Decode(&result)

	if len(result.Data.Items) != 1 {
		t.Fatalf("items 数量 = %d, 期望 1（停用产品默认被排除）", len(result.Data.Items))
	}
	if result.Data.Items[0].ID != "prd-1" {
		t.Errorf("items[0].ID = %q, 期望 prd-1", result.Data.Items[0].ID)
	}
	if store.lastFilter.Active == nil || !*store.lastFilter.Active {
		t.Error("filter.Active 应默认为 true")
	}
}

func TestList_ExplicitActiveFalse(t *testing.T) {
	store := newMockStore()
	addProduct(store, "prd-1", "Activo", model.CategoryTradicional, 3.00, 300, true)
	addProduct(store, "prd-2", "Retirado", model.CategoryTradicional, 5.00, 10, false)
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products?active=false", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200", w.Code)
	}

	var result struct {
		Data struct {
			Items []*model.Product `json:"items"`
		} `json:"data"`
	}
	json.NewDecoder(w.Body).Decode(&result)
	if len(result.Data.Items) != 1 || result.Data.Items[0].ID != "prd-2" {
		t.Errorf("items = %+v, 期望仅 prd-2", result.Data.Items)
	}
}

func TestList_QueryParams(t *testing.T) {
	store := newMockStore()
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products?page=3&limit=5&category=vegana&search=torta", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200", w.Code)
	}

	f := store.lastFilter
	if f.Page != 3 || f.Limit != 5 {
		t.Errorf("分页 = (%d, %d), 期望 (3, 5)", f.Page, f.Limit)
	}
	if f.Category != model.CategoryVegana {
		t.Errorf("Category = %q, 期望 vegana", f.Category)
	}
	if f.Search != "torta" {
		t.Errorf("Search = %q, 期望 torta", f.Search)
	}
}

func TestList_InvalidPageFallsBack(t *testing.T) {
	store := newMockStore()
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products?page=abc&limit=-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200", w.Code)
	}
	if store.lastFilter.Page != 1 || store.lastFilter.Limit != 10 {
		t.Errorf("分页 = (%d, %d), 期望回退到 (1, 10)", store.lastFilter.Page, store.lastFilter.Limit)
	}
}

// ============================================================================
// Get
// ============================================================================

func TestGet_Basic(t *testing.T) {
	store := newMockStore()
	addProduct(store, "prd-1", "Tarta de Santiago", model.CategoryTradicional, 6.00, 150, true)
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products/prd-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200", w.Code)
	}

	var result struct {
		Data struct {
			Product *model.Product `json:"product"`
		} `json:"data"`
	}
	json.NewDecoder(w.Body).Decode(&result)
	if result.Data.Product.Name != "Tarta de Santiago" {
		t.Errorf("name = %q, 期望 Tarta de Santiago", result.Data.Product.Name)
	}
}

// TestGet_InactiveStillVisible 单个产品详情不过滤停用产品
func TestGet_InactiveStillVisible(t *testing.T) {
	store := newMockStore()
	addProduct(store, "prd-1", "Retirado", model.CategoryTradicional, 5.00, 0, false)
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products/prd-1", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("HTTP 状态码 = %d, 期望 200（详情不过滤停用产品）", w.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	store := newMockStore()
	mux := newTestMux(store)

	w := doJSON(mux, "GET", "/api/products/prd-missing", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("HTTP 状态码 = %d, 期望 404", w.Code)
	}
}

// ============================================================================
// Create
// ============================================================================

func TestCreate_Basic(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	mux := newTestMux(store)

	body := `{
		"name": "Empanada de Manzana",
		"description": "Crujiente empanada rellena de manzana caramelizada",
		"price": 3.00,
		"category": "tradicional",
		"stock": 300
	}`
	w := doJSON(mux, "POST", "/api/products", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("HTTP 状态码 = %d, 期望 201, 响应: %s", w.Code, w.Body.String())
	}

	if len(store.products) != 1 {
		t.Fatalf("存储的产品数量 = %d, 期望 1", len(store.products))
	}
	for _, p := range store.products {
		if !strings.HasPrefix(p.ID, "prd-") {
			t.Errorf("ID = %q, 期望 prd- 前缀", p.ID)
		}
		if p.Price != 3.00 || p.Stock != 300 {
			t.Errorf("price/stock = %.2f/%d, 期望 3.00/300", p.Price, p.Stock)
		}
		if !p.IsActive {
			t.Error("新建产品应默认活跃")
		}
	}
}

// TestCreate_ZeroPriceAllowed 价格 0 合法（gte=0 而非 gt=0）
func TestCreate_ZeroPriceAllowed(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	mux := newTestMux(store)

	body := `{"name":"Muestra Gratis","price":0,"category":"especiales"}`
	w := doJSON(mux, "POST", "/api/products", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("HTTP 状态码 = %d, 期望 201, 响应: %s", w.Code, w.Body.String())
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	mux := newTestMux(store)

	tests := []struct {
		name string
		body string
	}{
		{"缺少 name 和 price", `{"category":"tradicional"}`},
		{"非法类目", `{"name":"X","price":1,"category":"sin-lactosa"}`},
		{"负价格", `{"name":"X","price":-1,"category":"tradicional"}`},
		{"负库存", `{"name":"X","price":1,"category":"tradicional","stock":-5}`},
		{"image 非 URL", `{"name":"X","price":1,"category":"tradicional","image":"not-a-url"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(mux, "POST", "/api/products", tt.body, token)
			if w.Code != http.StatusBadRequest {
				t.Errorf("HTTP 状态码 = %d, 期望 400, 响应: %s", w.Code, w.Body.String())
			}
		})
	}
	if len(store.products) != 0 {
		t.Errorf("存储的产品数量 = %d, 期望 0", len(store.products))
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	store := newMockStore()
	custToken := customerToken(t, store)
	mux := newTestMux(store)

	body := `{"name":"X","price":1,"category":"tradicional"}`

	// 未认证 → 401
	w := doJSON(mux, "POST", "/api/products", body, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未认证 HTTP 状态码 = %d, 期望 401", w.Code)
	}

	// customer → 403
	w = doJSON(mux, "POST", "/api/products", body, custToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer HTTP 状态码 = %d, 期望 403", w.Code)
	}
}

// ============================================================================
// Update
// ============================================================================

func TestUpdate_PartialFields(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	addProduct(store, "prd-1", "Brownie Sin Gluten", model.CategorySinGluten, 4.00, 250, true)
	mux := newTestMux(store)

	w := doJSON(mux, "PUT", "/api/products/prd-1", `{"price":4.50}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200, 响应: %s", w.Code, w.Body.String())
	}

	p := store.products["prd-1"]
	if p.Price != 4.50 {
		t.Errorf("Price = %.2f, 期望 4.50", p.Price)
	}
	// 未提交的字段保持不变
	if p.Name != "Brownie Sin Gluten" || p.Stock != 250 {
		t.Errorf("未提交字段被意外修改: %+v", p)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	mux := newTestMux(store)

	w := doJSON(mux, "PUT", "/api/products/prd-missing", `{"price":1}`, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("HTTP 状态码 = %d, 期望 404", w.Code)
	}
}

// ============================================================================
// Delete（软停用）
// ============================================================================

func TestDelete_SoftDeactivation(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	addProduct(store, "prd-1", "Pan Sin Gluten", model.CategorySinGluten, 3.50, 180, true)
	mux := newTestMux(store)

	w := doJSON(mux, "DELETE", "/api/products/prd-1", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("HTTP 状态码 = %d, 期望 200, 响应: %s", w.Code, w.Body.String())
	}

	// 文档保留，仅 IsActive 置 false
	p := store.products["prd-1"]
	if p == nil {
		t.Fatal("产品不应被物理删除")
	}
	if p.IsActive {
		t.Error("IsActive 应为 false")
	}
	if p.Name != "Pan Sin Gluten" || p.Stock != 180 {
		t.Errorf("其余字段应保持不变: %+v", p)
	}
}

func TestDelete_NotFound(t *testing.T) {
	store := newMockStore()
	token := adminToken(t, store)
	mux := newTestMux(store)

	w := doJSON(mux, "DELETE", "/api/products/prd-missing", "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("HTTP 状态码 = %d, 期望 404", w.Code)
	}
}
