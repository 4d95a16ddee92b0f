package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/httpmiddleware"
)

// Router builds the gin engine with the full route table.
func (h *Handler) Router(frontendURL, uploadDir string, rateLimitPerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware(frontendURL))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(rateLimitPerMin, rateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.healthz)
	r.GET("/ws", h.serveWS)
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", h.Auth.RequireUser(), h.me)
		authGroup.PUT("/profile", h.Auth.RequireUser(), h.updateProfile)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", h.Auth.OptionalUser(), h.listAssignments)
		assignments.GET("/:id", h.Auth.OptionalUser(), h.getAssignment)
		assignments.POST("", h.Auth.RequireUser(), h.createAssignment)
		assignments.POST("/:id/submit", h.Auth.RequireUser(), h.submitAssignment)
		assignments.PUT("/:id/grade/:submissionId", h.Auth.RequireUser(), h.gradeSubmission)
		assignments.DELETE("/:id", h.Auth.RequireUser(), h.deleteAssignment)
	}

	att := api.Group("/attendance")
	{
		att.POST("", h.Auth.RequireUser(), h.markAttendance)
		att.GET("", h.Auth.OptionalUser(), h.listAttendance)
		att.GET("/stats", h.Auth.OptionalUser(), h.attendanceStats)
		att.GET("/students", h.Auth.RequireUser(), h.attendanceStudents)
	}

	leaves := api.Group("/leaves", h.Auth.RequireUser())
	{
		leaves.GET("", h.listLeaves)
		leaves.POST("", h.createLeave)
		leaves.GET("/:id", h.getLeave)
		leaves.PUT("/:id", h.reviewLeave)
		leaves.DELETE("/:id", h.deleteLeave)
	}

	sessions := api.Group("/mentoring", h.Auth.RequireUser())
	{
		sessions.GET("", h.listMentoring)
		sessions.POST("", h.createMentoring)
		sessions.GET("/:id", h.getMentoring)
		sessions.PUT("/:id", h.updateMentoring)
		sessions.DELETE("/:id", h.cancelMentoring)
		sessions.PUT("/:id/attendance", h.mentoringAttendance)
		sessions.PUT("/:id/feedback", h.mentoringFeedback)
	}

	notifications := api.Group("/notifications", h.Auth.RequireUser())
	{
		notifications.GET("", h.listNotifications)
		notifications.PUT("/read-all", h.readAllNotifications)
		notifications.PUT("/:id/read", h.readNotification)
		notifications.DELETE("/:id", h.deleteNotification)
	}

	return r
}

func corsMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = frontendURL
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
