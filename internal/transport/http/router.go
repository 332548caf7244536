package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studyplatform/internal/middleware"
)

type Handlers struct {
	Procedure  *ProcedureHandler
	Testing    *TestingHandler
	User       *UserHandler
	Course     *CourseHandler
	Lesson     *LessonHandler
	Discussion *DiscussionHandler
	SQLEvent   *SQLEventHandler
	Event      *EventHandler
	Comment    *CommentHandler
	Cache      *CacheHandler
	Health     *HealthHandler
}

func NewRouter(h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))
	r.Use(middleware.RequestID())

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health.Check)

		api.POST("/procedures/:name", limiter.Limit("procedures", 30, 1*time.Minute), h.Procedure.Invoke)
		api.GET("/testing", limiter.Limit("testing", 5, 1*time.Minute), h.Testing.Run)

		api.GET("/users", h.User.GetEnrollments)
		api.POST("/users", h.User.Action)
		api.GET("/courses", h.Course.List)
		api.POST("/lessons", h.Lesson.Action)

		writeLimit := limiter.Limit("writes", 60, 1*time.Minute)

		disc := api.Group("/discussions")
		{
			disc.GET("", h.Discussion.List)
			disc.POST("", writeLimit, h.Discussion.Create)
		}

		sqlEvents := api.Group("/sql-events")
		{
			sqlEvents.GET("", h.SQLEvent.List)
			sqlEvents.POST("", writeLimit, h.SQLEvent.Create)
		}

		events := api.Group("/events")
		{
			events.GET("", h.Event.List)
			events.POST("", writeLimit, h.Event.Create)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", h.Comment.List)
			comments.POST("", writeLimit, h.Comment.Create)
		}

		cacheGroup := api.Group("/cache")
		{
			cacheGroup.GET("", h.Cache.Get)
			cacheGroup.POST("", writeLimit, h.Cache.Set)
		}
	}

	return r
}
