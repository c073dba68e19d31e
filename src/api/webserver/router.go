package webserver

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/config"
	"github.com/pulseform/survey-api/src/api/session"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, store session.Store) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, db, rdb, store)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, store session.Store) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(db, secret)
	questH := NewQuestions(db)
	sessH := NewSessions(db, rdb, store)
	respH := NewResponses(db)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", authH.Login)
		v1.GET("/auth/session", JWTMiddleware(secret), authH.Session)

		// Respondent flow
		v1.GET("/questions", questH.List)
		v1.POST("/sessions", sessH.Start)
		v1.GET("/sessions/:id", sessH.Show)
		v1.POST("/sessions/:id/answers", sessH.Answer)
		v1.POST("/sessions/:id/submit", sessH.Submit)
	}

	// One admin surface mounted twice: the regular path plus an unlisted
	// alternate, same handlers behind both.
	prefixes := []string{"admin"}
	if cfg.AdminAltPath != "" && cfg.AdminAltPath != "admin" {
		prefixes = append(prefixes, cfg.AdminAltPath)
	}
	for _, prefix := range prefixes {
		admin := v1.Group("/" + prefix)
		admin.Use(JWTMiddleware(secret))
		{
			admin.GET("/questions", questH.List)
			admin.POST("/questions", questH.Create)
			admin.PUT("/questions/order", questH.Reorder)
			admin.DELETE("/questions/:id", questH.Delete)
			admin.GET("/responses", respH.List)
		}
	}
}
