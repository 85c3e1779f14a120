package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("looptrack_session", store))

	api := handler.NewAPI(db.DB)

	r.GET("/health", api.HealthCheck)

	r.POST("/auth/login", handler.Login)
	r.POST("/auth/logout", handler.Logout)

	// 需要认证的 API 路由
	authed := r.Group("/api")
	authed.Use(handler.AuthRequired())
	{
		authed.GET("/state", api.GetState)

		authed.GET("/habits", api.ListHabits)
		authed.POST("/habits", api.CreateHabit)
		authed.GET("/habits/:id", api.GetHabit)
		authed.PUT("/habits/:id", api.UpdateHabit)
		authed.DELETE("/habits/:id", api.DeleteHabit)
		authed.PUT("/habits/reorder", api.ReorderHabits)
		authed.POST("/habits/:id/toggle", api.ToggleHabit)

		authed.PUT("/logs/:date/sleep", api.SetSleep)

		authed.GET("/analytics", api.GetAnalytics)
		authed.GET("/badges", api.ListBadges)
		authed.GET("/reminders/due", api.GetDueReminders)

		authed.GET("/profile", api.GetProfile)
		authed.PUT("/profile/name", api.UpdateProfileName)
		authed.PUT("/profile/avatar", api.UpdateProfileAvatar)
		authed.POST("/profile/onboarding", api.CompleteOnboarding)
		authed.POST("/profile/reset", api.ResetData)

		authed.GET("/export", api.ExportJSON)
		authed.GET("/export/csv", api.ExportCSV)
		authed.POST("/import", api.ImportJSON)

		authed.POST("/insights", api.GenerateInsight)

		authed.GET("/settings", api.GetSystemSettings)
		authed.PUT("/settings", api.UpdateSystemSettings)
		authed.POST("/settings/ai/test", api.TestAIConnection)
	}

	return r
}
