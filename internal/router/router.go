package router

import (
	"time"

	"fleetops/internal/handlers"
	"fleetops/internal/middleware"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	// 自定义参数校验器
	handlers.RegisterValidators()

	// 注册路由
	registerRoutes(router)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {

	auth := middleware.NewAuthMiddleware()

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler()
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/logout", authHandler.Logout)        // 用户登出
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 🔒 获取当前用户信息与生效权限
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 🔐 用户路由
		userHandler := handlers.NewUserHandler()
		users := api.Group("/users")
		{
			users.POST("", auth.RequireLogin(), auth.RequirePermission("users.create"), userHandler.Create)
			users.GET("", auth.RequireLogin(), auth.RequirePermission("users.list"), userHandler.List)
			users.GET("/stats", auth.RequireLogin(), auth.RequirePermission("users.list"), userHandler.GetStats)
			users.GET("/:id", auth.RequireLogin(), auth.RequirePermission("users.view"), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("users.edit"), userHandler.Update)
			users.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("users.delete"), userHandler.Delete)

			// 🔒 状态快捷操作
			users.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("users.edit"), userHandler.Activate)
			users.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("users.edit"), userHandler.Deactivate)
			users.POST("/:id/lock", auth.RequireLogin(), auth.RequirePermission("users.edit"), userHandler.Lock)
			users.POST("/:id/reset-password", auth.RequireLogin(), auth.RequirePermission("users.edit"), userHandler.ResetPassword)

			// 🔒 角色与权限覆盖（仅超级管理员）
			users.PUT("/:id/role", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.SetRole)
			users.PUT("/:id/overrides", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.SetOverrides)
		}

		// 🔐 公司路由（仅超级管理员）
		companyHandler := handlers.NewCompanyHandler()
		companies := api.Group("/companies")
		{
			companies.POST("", auth.RequireLogin(), auth.RequirePermission("company.create"), companyHandler.Create)
			companies.GET("", auth.RequireLogin(), auth.RequirePermission("company.list"), companyHandler.List)
			companies.GET("/stats", auth.RequireLogin(), auth.RequirePermission("company.list"), companyHandler.GetStats)
			companies.GET("/:id", auth.RequireLogin(), auth.RequirePermission("company.view"), companyHandler.GetByID)
			companies.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("company.edit"), companyHandler.Update)
			companies.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("company.delete"), companyHandler.Delete)
			companies.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("company.edit"), companyHandler.Activate)
			companies.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("company.edit"), companyHandler.Deactivate)
		}

		// 🔐 角色路由
		roleHandler := handlers.NewRoleHandler()
		roles := api.Group("/roles")
		{
			roles.POST("", auth.RequireLogin(), auth.RequirePermission("role.create"), roleHandler.Create)
			roles.GET("", auth.RequireLogin(), auth.RequirePermission("role.list"), roleHandler.List)
			roles.GET("/:id", auth.RequireLogin(), auth.RequirePermission("role.view"), roleHandler.GetByID)
			roles.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("role.edit"), roleHandler.Update)
			roles.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("role.delete"), roleHandler.Delete)

			// 🔒 角色权限管理
			roles.PUT("/:id/permissions", auth.RequireLogin(), auth.RequirePermission("role.edit"), roleHandler.AssignPermissions)
			roles.GET("/:id/permissions", auth.RequireLogin(), auth.RequirePermission("role.view"), roleHandler.GetPermissions)
		}

		// 🔐 权限目录路由
		permissionHandler := handlers.NewPermissionHandler()
		permissions := api.Group("/permissions")
		{
			permissions.GET("", auth.RequireLogin(), auth.RequirePermission("permission.list"), permissionHandler.List)
			permissions.GET("/grouped", auth.RequireLogin(), auth.RequirePermission("permission.list"), permissionHandler.GetGrouped)
			permissions.GET("/:id", auth.RequireLogin(), auth.RequirePermission("permission.list"), permissionHandler.GetByID)

			// 🔒 目录维护（仅超级管理员）
			permissions.POST("", auth.RequireLogin(), auth.RequireSuperAdmin(), permissionHandler.Create)
			permissions.PUT("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), permissionHandler.Update)
		}

		// 🔐 船舶路由
		vesselHandler := handlers.NewVesselHandler()
		vessels := api.Group("/vessels")
		{
			vessels.POST("", auth.RequireLogin(), auth.RequirePermission("vessel.create"), vesselHandler.Create)
			vessels.GET("", auth.RequireLogin(), auth.RequirePermission("vessel.list"), vesselHandler.List)
			vessels.GET("/stats", auth.RequireLogin(), auth.RequirePermission("vessel.list"), vesselHandler.GetStats)
			vessels.GET("/:id", auth.RequireLogin(), auth.RequirePermission("vessel.view"), vesselHandler.GetByID)
			vessels.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("vessel.edit"), vesselHandler.Update)
			vessels.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("vessel.delete"), vesselHandler.Delete)
		}

		// 🔐 证书路由
		certificateHandler := handlers.NewCertificateHandler()
		certificates := api.Group("/certificates")
		{
			certificates.POST("", auth.RequireLogin(), auth.RequirePermission("certificate.create"), certificateHandler.Create)
			certificates.GET("", auth.RequireLogin(), auth.RequirePermission("certificate.list"), certificateHandler.List)
			certificates.GET("/expiring", auth.RequireLogin(), auth.RequirePermission("certificate.list"), certificateHandler.GetExpiring)
			certificates.GET("/:id", auth.RequireLogin(), auth.RequirePermission("certificate.view"), certificateHandler.GetByID)
			certificates.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("certificate.edit"), certificateHandler.Update)
			certificates.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("certificate.delete"), certificateHandler.Delete)
		}

		// 🔐 航次路由
		voyageHandler := handlers.NewVoyageHandler()
		documentHandler := handlers.NewDocumentHandler()
		voyages := api.Group("/voyages")
		{
			voyages.POST("", auth.RequireLogin(), auth.RequirePermission("voyage.create"), voyageHandler.Create)
			voyages.GET("", auth.RequireLogin(), auth.RequirePermission("voyage.list"), voyageHandler.List)
			voyages.GET("/stats", auth.RequireLogin(), auth.RequirePermission("voyage.list"), voyageHandler.GetStats)
			voyages.GET("/:id", auth.RequireLogin(), auth.RequirePermission("voyage.view"), voyageHandler.GetByID)
			voyages.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("voyage.edit"), voyageHandler.Update)
			voyages.PUT("/:id/status", auth.RequireLogin(), auth.RequirePermission("voyage.edit"), voyageHandler.UpdateStatus)
			voyages.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("voyage.delete"), voyageHandler.Delete)

			// 🔒 到港文书清单
			voyages.GET("/:id/documents", auth.RequireLogin(), auth.RequirePermission("document.list"), documentHandler.ListByVoyage)
			voyages.POST("/:id/documents", auth.RequireLogin(), auth.RequirePermission("document.edit"), documentHandler.AddFromCertificate)
			voyages.POST("/:id/documents/manual", auth.RequireLogin(), auth.RequirePermission("document.edit"), documentHandler.AddManual)
		}

		// 🔐 文书条目路由
		documents := api.Group("/documents")
		{
			documents.PUT("/:id/status", auth.RequireLogin(), auth.RequirePermission("document.edit"), documentHandler.UpdateStatus)
			documents.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("document.edit"), documentHandler.Delete)
		}

		// 🔐 动态报告路由
		reportHandler := handlers.NewReportHandler()
		reports := api.Group("/reports")
		{
			reports.POST("", auth.RequireLogin(), auth.RequirePermission("report.create"), reportHandler.Submit)
			reports.GET("", auth.RequireLogin(), auth.RequirePermission("report.list"), reportHandler.List)
			reports.GET("/:id", auth.RequireLogin(), auth.RequirePermission("report.view"), reportHandler.GetByID)
			reports.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("report.delete"), reportHandler.Delete)
		}

		// 🔐 船员申请路由
		crewHandler := handlers.NewCrewHandler()
		crew := api.Group("/crew-applications")
		{
			crew.POST("", auth.RequireLogin(), auth.RequirePermission("crew.create"), crewHandler.Create)
			crew.GET("", auth.RequireLogin(), auth.RequirePermission("crew.list"), crewHandler.List)
			crew.GET("/:id", auth.RequireLogin(), auth.RequirePermission("crew.view"), crewHandler.GetByID)
			crew.POST("/:id/review", auth.RequireLogin(), auth.RequirePermission("crew.review"), crewHandler.Review)
			crew.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("crew.delete"), crewHandler.Delete)
		}

		// 🔐 工作台
		dashboardHandler := handlers.NewDashboardHandler()
		api.GET("/dashboard/overview", auth.RequireLogin(), auth.RequirePermission("dashboard.view"), dashboardHandler.GetOverview)

		// WebSocket事件流（token经查询参数传递，处理器内自行鉴权）
		wsHandler := handlers.NewWebSocketHandler()
		api.GET("/ws/fleet/events", wsHandler.FleetEvents)
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "FLEETOPS",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
