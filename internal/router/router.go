package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/cloudnotes/internal/handler"
	"github.com/weiwangfds/cloudnotes/internal/middleware"
	fileservice "github.com/weiwangfds/cloudnotes/internal/service/file"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	noteservice "github.com/weiwangfds/cloudnotes/internal/service/note"
	"github.com/weiwangfds/cloudnotes/internal/service/storage"
	"github.com/weiwangfds/cloudnotes/internal/service/telemetry"
	userservice "github.com/weiwangfds/cloudnotes/internal/service/user"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
// 身份、存储和遥测依赖通过接口注入，便于测试替换
func NewRouter(db *gorm.DB, identityProvider identity.Provider,
	storageProvider storage.Provider, sink telemetry.Sink) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	// 对象键经URL编码后作为路径参数传入，需按原始路径匹配
	engine.UseRawPath = true

	// 初始化服务
	userService := userservice.NewService(db)
	noteService := noteservice.NewService(db)
	fileService := fileservice.NewService(storageProvider)

	// 初始化处理器
	authHandler := handler.NewAuthHandler(identityProvider, userService)
	noteHandler := handler.NewNoteHandler(noteService)
	fileHandler := handler.NewFileHandler(fileService)

	// 初始化中间件
	loggerMiddleware := middleware.NewLoggerMiddleware()
	telemetryMiddleware := middleware.NewTelemetryMiddleware(sink)
	authMiddleware := middleware.NewAuthMiddleware(identityProvider, userService)

	// 使用中间件
	engine.Use(middleware.Recovery(sink))
	engine.Use(loggerMiddleware.Logger())
	engine.Use(telemetryMiddleware.Handler())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// 认证接口
	auth := engine.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/confirm", authHandler.Confirm)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/profile", authMiddleware.RequireAuth(), authHandler.Profile)
	}

	// 笔记管理接口
	notes := engine.Group("/notes", authMiddleware.RequireAuth())
	{
		notes.GET("", noteHandler.ListNotes)
		notes.POST("", noteHandler.CreateNote)
		notes.GET("/:id", noteHandler.GetNote)
		notes.PUT("/:id", noteHandler.UpdateNote)
		notes.DELETE("/:id", noteHandler.DeleteNote)
	}

	// 文件管理接口
	files := engine.Group("/files", authMiddleware.RequireAuth())
	{
		files.POST("/upload", fileHandler.UploadFile)
		files.GET("", fileHandler.ListFiles)
		files.DELETE("/:key", fileHandler.DeleteFile)
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
