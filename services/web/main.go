package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/chat"
	"github.com/proconnect/internal/config"
	"github.com/proconnect/internal/handler"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/session"
	"github.com/proconnect/internal/startup"
	"github.com/proconnect/internal/view"
)

func main() {
	logger.SetPrefix("web")
	logger.Info("starting web service")
	cfg := config.Load()
	session.Secure = cfg.CookieSecure

	store := startup.ConnectCacheWithRetry(cfg.Redis.URL, 60*time.Second)
	defer store.Close()

	renderer, err := view.New()
	if err != nil {
		logger.Errorf("templates: %v", err)
		os.Exit(1)
	}

	be := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	dialer := chat.NewRelayDialer(cfg.RelayWSURL, chat.RelayConfig{
		WriteTimeout: time.Duration(cfg.WSWriteTimeout) * time.Second,
		MaxFrameSize: int64(cfg.WSMaxFrameSize),
		FrameBuffer:  cfg.WSSendBufferSize,
	})
	h := handler.New(renderer, be, store, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, dialer, handler.WSConfig{
		WriteTimeout: time.Duration(cfg.WSWriteTimeout) * time.Second,
		MaxFrameSize: int64(cfg.WSMaxFrameSize),
		SendBuffer:   cfg.WSSendBufferSize,
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	// Never compress WebSocket responses: the wrapped ResponseWriter would
	// not implement http.Hijacker and the upgrade fails with a 500.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, req)
				return
			}
			chimw.Compress(5)(next).ServeHTTP(w, req)
		})
	})
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession)
	r.Use(middleware.RateLimit)
	// The JSON endpoints are same-origin in production; CORS only matters
	// for local setups where pages are served from a separate dev host.
	if cfg.CORSAllowedOrigins != "" && cfg.CORSAllowedOrigins != "*" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   strings.Split(cfg.CORSAllowedOrigins, ","),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); w.Write([]byte("ok")) })
	r.Handle("/static/*", view.StaticHandler())

	// Pages reachable without signing in.
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/jobs", h.JobList)
	r.Get("/jobs/{id}", h.JobDetail)
	r.Get("/in/{slug}", h.ProfileView)
	r.Get("/company/{slug}", h.CompanyView)
	r.Get("/api/notifications/unread", h.UnreadCountJSON)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.Feed)
		r.Post("/logout", h.Logout)
		r.Post("/posts", h.PostCreate)
		r.Post("/posts/{id}/like", h.PostLike)
		r.Post("/posts/{id}/comments", h.PostComment)
		r.Get("/in/{slug}/edit", h.ProfileEditForm)
		r.Post("/in/{slug}/edit", h.ProfileUpdate)
		r.Get("/company/{slug}/edit", h.CompanyEditForm)
		r.Post("/company/{slug}/edit", h.CompanyUpdate)
		r.Get("/jobs/new", h.JobNewForm)
		r.Post("/jobs/new", h.JobCreate)
		r.Post("/jobs/{id}/apply", h.JobApply)
		r.Get("/applications", h.Applications)
		r.Post("/skills", h.SkillAdd)
		r.Post("/skills/{id}/endorse", h.SkillEndorse)
		r.Post("/skills/{id}/remove", h.SkillRemove)
		r.Get("/notifications", h.Notifications)
		r.Post("/notifications/{id}/read", h.NotificationRead)
		r.Post("/notifications/read-all", h.NotificationsReadAll)
		r.Get("/chat", h.ChatRooms)
		r.Get("/chat/direct/{user}", h.ChatDirect)
		r.Get("/chat/{room}", h.ChatRoom)
		r.Get("/ws/chat/{room}", h.ChatWS)
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var srvWg sync.WaitGroup
	errCh := make(chan error, 1)
	srvWg.Add(1)
	go func() {
		defer srvWg.Done()
		logger.Infof("server listening on %s", cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("server stopped accepting connections")
	srvWg.Wait()
	logger.Info("server goroutine exited")
}
