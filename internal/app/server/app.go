/*
 * 应用层:应用程序组装
 * @author: sun977
 * @date: 2025.10.09
 * @description: 加载配置、初始化日志与存储连接、组装路由
 * @func: NewApp 创建应用实例并完成依赖装配
 */
package server

import (
	"fmt"

	"staffhub/internal/config"
	"staffhub/internal/pkg/database"
	"staffhub/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// App 应用程序结构体
type App struct {
	config      *config.Config
	router      *Router
	db          *gorm.DB
	redisClient *redis.Client
}

// NewApp 创建新的应用程序实例
// 依次完成配置加载、日志初始化、MySQL与Redis连接和路由装配
func NewApp() (*App, error) {
	// 加载配置
	cfg, err := config.LoadConfig("", "")
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// 初始化日志
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	// 启动配置热加载,日志配置变化时重建日志器
	// 监听失败不阻止启动,只是失去热加载能力
	if err := config.StartConfigWatcher("", ""); err != nil {
		logger.LogError(err, "", 0, "", "config_watcher", "START", map[string]interface{}{
			"operation": "start_config_watcher",
			"timestamp": logger.NowFormatted(),
		})
	} else {
		config.AddConfigReloadCallback(func(oldCfg, newCfg *config.Config) error {
			if !config.LogConfigChanged(oldCfg, newCfg) {
				return nil
			}
			if _, err := logger.InitLogger(&newCfg.Log); err != nil {
				return fmt.Errorf("重建日志器失败: %w", err)
			}
			return nil
		})
	}

	// 初始化MySQL连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	// 初始化Redis连接
	redisClient, err := database.NewRedisConnection(&cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	// 装配路由
	router := NewRouter(cfg, db, redisClient)
	router.SetupRoutes()

	return &App{
		config:      cfg,
		router:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
}

// GetConfig 获取配置实例
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *Router {
	return a.router
}

// Stop 停止应用程序,停止配置监听并释放存储连接
func (a *App) Stop() error {
	if err := config.StopConfigWatcher(); err != nil {
		return err
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			return err
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}
