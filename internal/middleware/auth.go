package middleware

import (
	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken 读取 Authorization: Bearer <token>
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware 校验 JWT 并把 Claims 写入上下文
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(token, cfg.JWT.Secret)
		if err != nil {
			logger.Ctx(c.Request.Context()).Debug("JWT rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// allowed 管理员拥有全部权限
func allowed(user *util.Claims, roles []model.UserRole) bool {
	if user.Role == model.Admin {
		return true
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		switch {
		case user == nil:
			util.Unauthorized(c)
			c.Abort()
		case !allowed(user, roles):
			util.Forbidden(c)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// SelfOrRoles 路径参数 param 指向当前用户，或当前用户拥有指定角色
func SelfOrRoles(param string, roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if (err == nil && uint(id) == user.UserID) || allowed(user, roles) {
			c.Next()
			return
		}

		util.Forbidden(c)
		c.Abort()
	}
}
