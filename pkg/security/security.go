package security

import (
	"context"
	"elearning_backend/internal/config"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	allowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

// CORS 白名单中的 Origin 可携带凭证访问，"*" 表示放行所有来源
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[strings.TrimSuffix(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := origins[origin]; ok || allowAll {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
		}
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure 常规安全响应头，HTTPS 下附加 HSTS
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors 按客户端 IP 保存令牌桶
type visitors struct {
	mu    sync.Mutex
	byIP  map[string]*visitor
	every rate.Limit
	burst int
}

func (v *visitors) get(ip string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.byIP[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(v.every, v.burst)}
		v.byIP[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (v *visitors) sweep(now time.Time, idle time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ip, entry := range v.byIP {
		if now.Sub(entry.lastSeen) > idle {
			delete(v.byIP, ip)
		}
	}
}

// RateLimiter 每个 IP 在 window 内最多 max_requests 次，闲置条目每分钟清理，ctx 结束后停止清理
func RateLimiter(ctx context.Context, cfg config.RateLimitConfig) gin.HandlerFunc {
	burst := cfg.MaxRequests
	if burst <= 0 {
		burst = 1
	}
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}

	v := &visitors{
		byIP:  make(map[string]*visitor),
		every: rate.Every(window / time.Duration(burst)),
		burst: burst,
	}

	idle := 3 * window
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				v.sweep(now, idle)
			}
		}
	}()

	return func(c *gin.Context) {
		if !v.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
