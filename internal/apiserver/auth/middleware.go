package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"pasteleria-api/internal/apiserver/respond"
	"pasteleria-api/internal/shared/model"
)

// UserStore 用户存储接口（认证链与 auth handler 共用的子集）
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// Middleware 认证/授权门：每个请求经历
// Unauthenticated → Authenticated → Authorized 两次转移，纯校验无副作用。
type Middleware struct {
	store UserStore
	cfg   Config
	debug bool
}

// NewMiddleware 创建认证中间件
func NewMiddleware(store UserStore, cfg Config, debug bool) *Middleware {
	return &Middleware{store: store, cfg: cfg, debug: debug}
}

// Authenticate 认证转移：提取 Bearer 令牌 → 验签 → 解析用户记录入 context
//
// 失败路径：
//   - 无 Authorization 头或非 Bearer scheme → 401
//   - 令牌无效/过期 → 401
//   - 令牌内身份不存在 → 404
//   - 账号已停用 → 403
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respond.Err(w, respond.NewError(http.StatusUnauthorized, "missing or malformed authentication token"), m.debug)
			return
		}

		claims, err := ParseToken(m.cfg, parts[1])
		if err != nil {
			respond.Err(w, respond.NewError(http.StatusUnauthorized, err.Error()), m.debug)
			return
		}

		user, err := m.store.GetUserByID(r.Context(), claims.Subject)
		if err != nil {
			log.Printf("[auth] GetUserByID error: %v", err)
			respond.Err(w, err, m.debug)
			return
		}
		if user == nil {
			respond.Err(w, respond.NewError(http.StatusNotFound, "user not found"), m.debug)
			return
		}
		if !user.IsActive {
			respond.Err(w, respond.NewError(http.StatusForbidden, "account inactive"), m.debug)
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// RequireRole 授权转移：认证身份的角色必须属于允许集合
//
// 未经 Authenticate 到达此处 → 401，角色不符 → 403。
func (m *Middleware) RequireRole(roles ...model.UserRole) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				respond.Err(w, respond.NewError(http.StatusUnauthorized, "not authenticated"), m.debug)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next(w, r)
					return
				}
			}
			respond.Err(w, respond.NewError(http.StatusForbidden, "insufficient permissions"), m.debug)
		}
	}
}
