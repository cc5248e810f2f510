package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"Buzz_Board/internal/config"
	"Buzz_Board/internal/handler"
	"Buzz_Board/internal/middleware"
	"Buzz_Board/internal/pkg"
	redisrepo "Buzz_Board/internal/repository/redis"
	"Buzz_Board/internal/service"
)

// Deps 组装路由需要的外部资源
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Log     *zap.Logger
	Metrics *pkg.Metrics
	Mailer  pkg.Mailer
}

func InitRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	tokens := pkg.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	sessions := &redisrepo.SessionRepository{RDB: d.Redis, TTL: tokens.AccessTTL(), RefreshTTL: tokens.RefreshTTL()}
	limiter := &redisrepo.LimiterRepository{RDB: d.Redis}
	searchCache := &redisrepo.SearchCacheRepository{RDB: d.Redis, TTL: cfg.Search.CacheTTL}
	auth := middleware.NewAuthenticator(tokens, sessions, d.Log)

	emailSvc := service.NewEmailService(d.Mailer, d.Log)
	user := handler.NewUserHandler(service.NewUserService(d.DB, sessions, tokens, emailSvc), d.Log)
	buzz := handler.NewBuzzHandler(service.NewBuzzService(d.DB), d.Log)
	post := handler.NewPostHandler(service.NewFeedService(d.DB, d.Metrics), service.NewPostService(d.DB), d.Log)
	search := handler.NewSearchHandler(service.NewSearchService(d.DB, searchCache, cfg.Search.MaxItems, d.Log), d.Log)
	health := handler.NewHealthHandler(d.DB, d.Redis)

	r.GET("/healthz", health.Healthz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// 用户相关接口
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", middleware.RateLimit(limiter, "signup", cfg.Limit.SignupPerMinute, time.Minute, d.Log), user.Signup)
		authGroup.POST("/login", user.Login)
		authGroup.POST("/refresh", user.Refresh)
		authGroup.POST("/logout", auth.Required(), user.Logout)
	}

	// 社区相关接口
	buzzGroup := r.Group("/api/buzz")
	buzzGroup.Use(auth.Required())
	{
		buzzGroup.POST("", buzz.Create)
		buzzGroup.POST("/subscribe", buzz.Subscribe)
		buzzGroup.POST("/unsubscribe", buzz.Unsubscribe)
		buzzGroup.POST("/post", post.Create)
		buzzGroup.PATCH("/post/vote", post.Vote)
		buzzGroup.PATCH("/post/comment", post.Comment)
	}

	// 匿名可访问，登录后结果不同
	publicGroup := r.Group("/api")
	publicGroup.Use(auth.Optional())
	{
		publicGroup.GET("/posts", post.List)
		publicGroup.GET("/search", middleware.RateLimit(limiter, "search", cfg.Limit.SearchPerMinute, time.Minute, d.Log), search.Search)
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})
	return r
}
