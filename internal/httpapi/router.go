package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/httpapi/handlers"
	"github.com/suPer8Hu/mindguide/internal/httpapi/middleware"
)

type Options struct {
	JWTSecret   string
	CORSOrigins []string
	Logger      *log.Logger
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(opts.Logger))
	corsCfg := cors.Config{
		AllowOrigins:              opts.CORSOrigins,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		ExposeHeaders:             []string{middleware.RequestIDHeader},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}
	if slices.Contains(opts.CORSOrigins, "*") {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	api := r.Group("/")
	api.Use(middleware.OptionalAuth(opts.JWTSecret))

	routes := []struct {
		method  string
		path    string
		handler gin.HandlerFunc
	}{
		{http.MethodPost, "signup", h.Signup},
		{http.MethodPost, "login", h.Login},
		{http.MethodPost, "logout", h.Logout},
		{http.MethodPost, "send_message", h.SendMessage},
		{http.MethodGet, "get_chats", h.GetChats},
		{http.MethodGet, "get_mood_logs", h.GetMoodLogs},
		{http.MethodPost, "log_mood", h.LogMood},
		{http.MethodGet, "get_stats", h.GetStats},
		{http.MethodPost, "contact", h.Contact},
	}
	// the browser client calls the old script paths, e.g. /api/send_message.php
	for _, rt := range routes {
		for _, p := range []string{"/" + rt.path, "/" + rt.path + ".php", "/api/" + rt.path, "/api/" + rt.path + ".php"} {
			api.Handle(rt.method, p, rt.handler)
		}
	}
	return r
}
