package router

import (
	"errors"
	"net/http"

	"github.com/auctusventures/site/internal/handler"
	"github.com/auctusventures/site/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookieName 为存放确认标记的会话 cookie 名称
const SessionCookieName = "auctus_session"

// Config 汇总路由所需的依赖
type Config struct {
	API           *handler.API
	SessionSecret string
	SecureCookies bool
	Logger        *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg Config) (*gin.Engine, error) {
	if cfg.API == nil {
		return nil, errors.New("router: api is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID())
	r.Use(handler.AccessLog(logger))

	authKey, encKey, err := deriveSessionKeys(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionCookieName, store))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/contact")
	})

	r.GET("/contact", cfg.API.ShowContactPage)
	r.GET("/contact-confirmation", cfg.API.ShowConfirmation)

	// 联系表单接口自行处理方法校验，以便 OPTIONS 与非法方法返回约定的响应
	r.Any("/api/submit-contact", cfg.API.SubmitContact)

	return r, nil
}
