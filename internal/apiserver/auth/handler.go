package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"pasteleria-api/internal/apiserver/respond"
	"pasteleria-api/internal/apiserver/validate"
	"pasteleria-api/internal/shared/model"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	store UserStore
	cfg   Config
	debug bool
}

// NewHandler 创建认证处理器
func NewHandler(store UserStore, cfg Config, debug bool) *Handler {
	return &Handler{store: store, cfg: cfg, debug: debug}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux, mw *Middleware) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/profile", mw.Authenticate(h.GetProfile))
	mux.HandleFunc("PUT /api/auth/profile", mw.Authenticate(h.UpdateProfile))
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type addressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func (a *addressPayload) toModel() *model.Address {
	if a == nil {
		return nil
	}
	return &model.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type registerRequest struct {
	Name            string          `json:"name" validate:"required,min=2,max=50"`
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=6"`
	ConfirmPassword string          `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string          `json:"phone"`
	Address         *addressPayload `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=2,max=50"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Password *string         `json:"password" validate:"omitempty,min=6"`
	Phone    *string         `json:"phone"`
	Address  *addressPayload `json:"address"`
	Role     *string         `json:"role" validate:"omitempty,oneof=admin customer"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	email := normalizeEmail(req.Email)

	// 检查邮箱是否已注册
	existing, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[auth.register] GetUserByEmail error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}
	if existing != nil {
		respond.Err(w, respond.NewError(http.StatusConflict, "email already registered"), h.debug)
		return
	}

	// 哈希密码；confirmPassword 仅用于校验，永不落库
	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[auth.register] HashPassword error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           model.NewID("usr"),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         model.UserRoleCustomer,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      req.Address.toModel(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 唯一索引兜底：并发注册同邮箱时 ErrDuplicate 映射为 409
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		log.Printf("[auth.register] CreateUser error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	token, err := GenerateToken(h.cfg, user.ID, string(user.Role))
	if err != nil {
		log.Printf("[auth.register] GenerateToken error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	log.Printf("[auth] user registered: %s (%s)", user.Email, user.ID)
	respond.JSON(w, http.StatusCreated, "user registered", authResponse{User: user, Token: token})
}

// Login 用户登录
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		log.Printf("[auth.login] GetUserByEmail error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}
	// 邮箱不存在与密码不符返回同一错误，避免用户枚举
	if user == nil {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "invalid credentials"), h.debug)
		return
	}
	if !user.IsActive {
		respond.Err(w, respond.NewError(http.StatusForbidden, "account inactive"), h.debug)
		return
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "invalid credentials"), h.debug)
		return
	}

	token, err := GenerateToken(h.cfg, user.ID, string(user.Role))
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}

	log.Printf("[auth] user logged in: %s", user.Email)
	respond.JSON(w, http.StatusOK, "login successful", authResponse{User: user, Token: token})
}

// GetProfile 获取当前用户信息（Authenticate 已将解析后的用户挂入 context）
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())
	if user == nil {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "not authenticated"), h.debug)
		return
	}
	respond.JSON(w, http.StatusOK, "profile retrieved", map[string]any{"user": user})
}

// UpdateProfile 更新个人资料
//
// 除 role 外任意字段可改；role 仅 admin 上下文可设置，非 admin 提交时静默丢弃。
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	authUser := GetUser(r.Context())
	if authUser == nil {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "not authenticated"), h.debug)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}
	if user == nil {
		respond.Err(w, respond.NewError(http.StatusNotFound, "user not found"), h.debug)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = req.Address.toModel()
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			respond.Err(w, err, h.debug)
			return
		}
		user.PasswordHash = hash
	}
	if req.Role != nil && authUser.Role == model.UserRoleAdmin {
		user.Role = model.UserRole(*req.Role)
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.profile] UpdateUser error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	respond.JSON(w, http.StatusOK, "profile updated", map[string]any{"user": user})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
