package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradelab/backend/config"
	"tradelab/backend/internal/api/handler"
	"tradelab/backend/internal/api/middleware"
	"tradelab/backend/pkg/jwt"
	"tradelab/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口额外限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 学员模块（:id 支持内部 ID 或 UUID）
			students := authorized.Group("/students")
			{
				students.GET("", h.Student.ListStudents)
				students.GET("/stats", h.Student.GetStudentStats)
				students.GET("/export", h.Export.ExportStudents)
				students.POST("", h.Student.CreateStudent)
				students.POST("/bulk-update", h.Student.BulkUpdateStudents)
				students.GET("/:id", h.Student.GetStudent)
				students.PUT("/:id", h.Student.UpdateStudent)
				students.PATCH("/:id", h.Student.UpdateStudent)
				students.DELETE("/:id", middleware.RoleAuth("admin"), h.Student.DeleteStudent)
				students.PATCH("/:id/onboarding-status", h.Student.SetOnboardingStatus)
				students.PATCH("/:id/timeline/:stepId", h.Student.UpdateTimelineStep)

				// 学员维度的 Discord 角色同步台账
				students.GET("/:id/discord-role", h.Discord.GetStudentRole)
				students.PUT("/:id/discord-role", h.Discord.UpsertStudentRole)
				students.POST("/:id/discord-role/sync-result", h.Discord.RecordSyncResult)
			}

			// 课程模块
			programs := authorized.Group("/programs")
			{
				programs.GET("", h.Program.ListPrograms)
				programs.GET("/:id", h.Program.GetProgram)
				programs.POST("", middleware.RoleAuth("admin"), h.Program.CreateProgram)
				programs.PATCH("/:id", middleware.RoleAuth("admin"), h.Program.UpdateProgram)
			}

			// 交易模块
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", h.Transaction.ListTransactions)
				transactions.GET("/:id", h.Transaction.GetTransaction)
				transactions.POST("", h.Transaction.CreateTransaction)
				transactions.PATCH("/:id", h.Transaction.UpdateTransactionStatus)
				transactions.DELETE("/:id", middleware.RoleAuth("admin"), h.Transaction.DeleteTransaction)
			}

			// Discord 同步台账总览
			authorized.GET("/discord/roles", h.Discord.ListRoles)

			// 系统日志模块
			logs := authorized.Group("/logs")
			{
				logs.GET("", h.SystemLog.ListLogs)
				logs.POST("/purge", middleware.RoleAuth("admin"), h.SystemLog.PurgeLogs)
				logs.DELETE("", middleware.RoleAuth("admin"), h.SystemLog.TruncateLogs)
			}

			// 运营指标模块
			metrics := authorized.Group("/metrics")
			{
				metrics.GET("/response-times", h.Metrics.GetResponseMetrics)
				metrics.GET("/message-volumes", h.Metrics.GetMessageVolumes)
				metrics.GET("/inquiry-themes", h.Metrics.GetInquiryThemes)
				metrics.GET("/insights", h.Metrics.GetInsights)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.POST("", h.Notification.CreateNotification)
				notifications.PATCH("/:id/read", h.Notification.MarkNotificationRead)
				notifications.DELETE("/:id", h.Notification.DeleteNotification)
			}

			// 设置模块
			settings := authorized.Group("/settings")
			{
				settings.GET("", h.Setting.ListSettings)
				settings.GET("/:key", h.Setting.GetSetting)
				settings.PUT("/:key", middleware.RoleAuth("admin"), h.Setting.PutSetting)
			}

			// 导出模块（/students/export 为兼容别名）
			authorized.GET("/export/students", h.Export.ExportStudents)

			// 报表 / 看板模块
			authorized.GET("/reports", h.Report.GetReports)
			authorized.GET("/dashboard/summary", h.Report.GetDashboardSummary)
		}
	}

	return r
}
