/*
 * 应用层:路由管理器
 * @author: sun977
 * @date: 2025.10.09
 * @description: 初始化存储、服务与处理器,注册所有HTTP路由
 * @func: NewRouter 装配依赖 / SetupRoutes 注册路由
 */
package server

import (
	"net/http"

	"staffhub/internal/config"
	authHandler "staffhub/internal/handler/auth"
	systemHandler "staffhub/internal/handler/system"
	authPkg "staffhub/internal/pkg/auth"
	"staffhub/internal/pkg/logger"
	"staffhub/internal/repository/mysql"
	redisRepo "staffhub/internal/repository/redis"
	authService "staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	engine            *gin.Engine
	middlewareManager *MiddlewareManager
	loginHandler      *authHandler.LoginHandler
	registerHandler   *authHandler.RegisterHandler
	userHandler       *authHandler.UserHandler
	userManageHandler *systemHandler.UserManageHandler
	roleHandler       *systemHandler.RoleHandler
	permissionHandler *systemHandler.PermissionHandler
	departmentHandler *systemHandler.DepartmentHandler
}

// NewRouter 创建路由管理器实例
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Router {
	// 初始化工具包
	tokenManager := authPkg.NewTokenManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer, cfg.Security.JWT.TokenExpire)
	passwordManager := authPkg.NewPasswordManager(nil)

	// 初始化数据访问层
	userRepo := mysql.NewUserRepository(db)
	roleRepo := mysql.NewRoleRepository(db)
	permissionRepo := mysql.NewPermissionRepository(db)
	departmentRepo := mysql.NewDepartmentRepository(db)
	cacheRepo := redisRepo.NewUserCacheRepository(redisClient)

	// 验证码发送器按配置选择
	var codeSender authService.CodeSender
	if cfg.SMS.Enabled {
		codeSender = authService.NewLogCodeSender(cfg.SMS.SignName)
	} else {
		codeSender = &authService.NoopCodeSender{}
	}

	// 初始化服务层(解析服务先行,其余服务依赖它做鉴权)
	resolver := authService.NewResolverService(userRepo, roleRepo, tokenManager, passwordManager)
	userService := authService.NewUserService(
		userRepo, roleRepo, cacheRepo, codeSender, resolver,
		tokenManager, passwordManager,
		cfg.Cache.UserSnapshotExpire, cfg.Cache.VerifyCodeExpire, cfg.SMS.CodeLen,
	)
	roleService := authService.NewRoleService(roleRepo, permissionRepo, resolver)
	permissionService := authService.NewPermissionService(permissionRepo, resolver)
	departmentService := authService.NewDepartmentService(departmentRepo, userRepo, cacheRepo, resolver, cfg.Cache.UserSnapshotExpire)

	// 初始化中间件管理器
	middlewareManager := NewMiddlewareManager(&cfg.Security.CORS)

	// 初始化处理器(控制器是服务集合,先初始化服务,然后服务装填成控制器)
	loginHandler := authHandler.NewLoginHandler(userService)
	registerHandler := authHandler.NewRegisterHandler(userService)
	userHandler := authHandler.NewUserHandler(userService)
	userManageHandler := systemHandler.NewUserManageHandler(userService)
	roleHandler := systemHandler.NewRoleHandler(roleService)
	permissionHandler := systemHandler.NewPermissionHandler(permissionService)
	departmentHandler := systemHandler.NewDepartmentHandler(departmentService)

	// 创建Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine:            engine,
		middlewareManager: middlewareManager,
		loginHandler:      loginHandler,
		registerHandler:   registerHandler,
		userHandler:       userHandler,
		userManageHandler: userManageHandler,
		roleHandler:       roleHandler,
		permissionHandler: permissionHandler,
		departmentHandler: departmentHandler,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	// 设置全局中间件
	r.engine.Use(r.middlewareManager.GinCORSMiddleware())
	r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
	r.engine.Use(r.middlewareManager.GinLoggingMiddleware())

	// API版本路由组
	// /api/v1
	api := r.engine.Group("/api")
	v1 := api.Group("/v1")

	// 公共路由(不需要认证)
	r.setupPublicRoutes(v1)

	// 用户自助路由(令牌在处理器内校验)
	r.setupUserRoutes(v1)

	// 管理员路由(管理员身份在服务层校验)
	r.setupAdminRoutes(v1)

	// 健康检查路由
	r.setupHealthRoutes(api)
}

// setupPublicRoutes 设置公共路由
func (r *Router) setupPublicRoutes(v1 *gin.RouterGroup) {
	auth := v1.Group("/auth")
	{
		// 用户注册(验证码校验,成功直接返回令牌)
		auth.POST("/register", r.registerHandler.Register)
		// 密码登录(账号为手机号或用户名)
		auth.POST("/login", r.loginHandler.Login)
		// 验证码登录
		auth.POST("/login-code", r.loginHandler.LoginWithCode)
		// 发送短信验证码
		auth.POST("/send-code", r.loginHandler.SendVerifyCode)
		// 修改密码(验证码校验通过后由前端调用)
		auth.POST("/update-password", r.userHandler.UpdatePassword)
	}
}

// setupUserRoutes 设置用户自助路由
func (r *Router) setupUserRoutes(v1 *gin.RouterGroup) {
	user := v1.Group("/user")
	{
		// 查询当前用户信息(缓存优先)
		user.GET("/info", r.userHandler.GetUserInfo)
		// 查询当前用户角色权限聚合视图
		user.GET("/role-permission", r.userHandler.GetUserRolePermission)
		// 注销账号(管理员账号拒绝注销)
		user.DELETE("/delete", r.userHandler.DeleteUser)
		// 查询用户所属部门
		user.GET("/departments", r.departmentHandler.GetUserDepartments)
	}
}

// setupAdminRoutes 设置管理员路由
// 管理员身份由服务层通过令牌或旧版手机号参数解析校验
func (r *Router) setupAdminRoutes(v1 *gin.RouterGroup) {
	admin := v1.Group("/admin")

	// 用户管理
	userMgmt := admin.Group("/users")
	{
		userMgmt.GET("/list", r.userManageHandler.GetAllUsers)                       // 获取用户列表
		userMgmt.POST("/login-permission", r.userManageHandler.UpdateLoginPermission) // 修改用户登录权限
		userMgmt.POST("/roles/assign", r.userManageHandler.AssignRoles)              // 为用户分配角色
		userMgmt.POST("/roles/remove", r.userManageHandler.RemoveRoles)              // 为用户移除角色
	}

	// 角色管理
	roleMgmt := admin.Group("/roles")
	{
		roleMgmt.GET("/list", r.roleHandler.GetAllRoles)                      // 获取角色列表
		roleMgmt.POST("/create", r.roleHandler.CreateRole)                    // 创建角色(可携带初始权限)
		roleMgmt.POST("/disable", r.roleHandler.DisableRole)                  // 禁用角色
		roleMgmt.POST("/enable", r.roleHandler.EnableRole)                    // 启用角色
		roleMgmt.POST("/permissions/assign", r.roleHandler.AssignPermissions) // 为角色分配权限
		roleMgmt.POST("/permissions/remove", r.roleHandler.RemovePermissions) // 为角色移除权限
		roleMgmt.GET("/:id/permissions", r.roleHandler.GetRolePermissions)    // 查询角色持有的启用权限
	}

	// 权限管理
	permMgmt := admin.Group("/permissions")
	{
		permMgmt.GET("/list", r.permissionHandler.GetAllPermissions) // 获取权限列表
		permMgmt.POST("/create", r.permissionHandler.CreatePermission)
		permMgmt.POST("/disable", r.permissionHandler.DisablePermission)
		permMgmt.POST("/enable", r.permissionHandler.EnablePermission)
	}

	// 部门管理
	deptMgmt := admin.Group("/departments")
	{
		deptMgmt.GET("/list", r.departmentHandler.GetAllDepartments)
		deptMgmt.POST("/create", r.departmentHandler.CreateDepartment)
		deptMgmt.POST("/delete", r.departmentHandler.DeleteDepartment) // 逻辑删除,部门非空拒绝
		deptMgmt.POST("/enable", r.departmentHandler.EnableDepartment)
		deptMgmt.POST("/users/assign", r.departmentHandler.AssignUserToDepartment)
		deptMgmt.POST("/users/remove", r.departmentHandler.RemoveUserFromDepartment)
	}
}

// setupHealthRoutes 设置健康检查路由
func (r *Router) setupHealthRoutes(api *gin.RouterGroup) {
	api.GET("/health", r.healthCheck)
	api.GET("/live", r.livenessCheck)
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// 健康检查处理器
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": logger.NowFormatted(),
	})
}

func (r *Router) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": logger.NowFormatted(),
	})
}
