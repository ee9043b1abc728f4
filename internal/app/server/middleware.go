/*
 * 应用层:中间件管理器
 * @author: sun977
 * @date: 2025.10.09
 * @description: 全局中间件集合,CORS、安全头与访问日志
 * @func:
 * 1.GinCORSMiddleware 按配置设置CORS响应头
 * 2.GinSecurityHeadersMiddleware 安全响应头
 * 3.GinLoggingMiddleware 访问日志
 */
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staffhub/internal/config"
	"staffhub/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MiddlewareManager 中间件管理器
type MiddlewareManager struct {
	corsConfig *config.CORSConfig
}

// NewMiddlewareManager 创建中间件管理器
func NewMiddlewareManager(corsConfig *config.CORSConfig) *MiddlewareManager {
	return &MiddlewareManager{
		corsConfig: corsConfig,
	}
}

// GinCORSMiddleware Gin CORS中间件
func (m *MiddlewareManager) GinCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.corsConfig != nil && !m.corsConfig.Enabled {
			c.Next()
			return
		}

		// 设置CORS头
		origin := "*"
		if m.corsConfig != nil && !m.corsConfig.AllowAllOrigins && len(m.corsConfig.AllowOrigins) > 0 {
			origin = strings.Join(m.corsConfig.AllowOrigins, ", ")
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		// 处理预检请求
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// GinSecurityHeadersMiddleware Gin安全头中间件
func (m *MiddlewareManager) GinSecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// GinLoggingMiddleware Gin日志中间件
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 处理请求
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		// 获取用户信息(如果已认证)
		userID := uint(0)
		username := ""
		if uid, exists := c.Get("user_id"); exists {
			if uidStr, ok := uid.(string); ok {
				if id, err := strconv.ParseUint(uidStr, 10, 32); err == nil {
					userID = uint(id)
				}
			}
			if uidUint, ok := uid.(uint); ok {
				userID = uidUint
			}
		}
		if uname, exists := c.Get("username"); exists {
			if unameStr, ok := uname.(string); ok {
				username = unameStr
			}
		}

		logger.LogBusinessOperation("http_request", userID, username, c.ClientIP(), c.GetHeader("X-Request-ID"), "info", "API请求", map[string]interface{}{
			"method":        c.Request.Method,
			"url":           c.Request.URL.String(),
			"status_code":   statusCode,
			"duration":      duration.Milliseconds(),
			"user_agent":    c.Request.UserAgent(),
			"request_size":  c.Request.ContentLength,
			"response_size": int64(c.Writer.Size()),
			"timestamp":     logger.NowFormatted(),
		})

		// 错误状态码单独记一条错误日志
		if statusCode >= 400 {
			errorMsg := ""
			if errs := c.Errors; len(errs) > 0 {
				errorMsg = errs.String()
			}
			logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), c.GetHeader("X-Request-ID"), userID, c.ClientIP(), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"status_code": statusCode,
				"timestamp":   logger.NowFormatted(),
			})
		}
	}
}
