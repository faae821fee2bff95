package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "weeklydash/internal/api/v1"
	"weeklydash/internal/config"
	"weeklydash/internal/importer"
	"weeklydash/internal/logger"
	"weeklydash/internal/parser"
	"weeklydash/internal/store"
)

// Server HTTP 서버
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
	http   *http.Server
}

// NewServer 저장소를 열고 라우트를 구성한다.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if _, err := config.EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("데이터 디렉터리 생성 실패: %w", err)
	}
	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 초기화 실패: %w", err)
	}

	return newServer(cfg, st), nil
}

func newServer(cfg *config.AppConfig, st *store.Store) *Server {
	coordinator := importer.NewCoordinator(st,
		importer.WithSellers(parser.NewSellerClassifier(cfg.Sellers.OpsTeam, cfg.Sellers.Departed)),
		importer.WithHeaderScanRows(cfg.Import.HeaderScanRows),
	)
	handler := v1.NewHandler(st, coordinator, v1.Options{
		MaxUploadMB: cfg.Import.MaxUploadMB,
		DefaultYear: cfg.Report.DefaultYear,
	})

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(), corsMiddleware(cfg.Server.CORSOrigins))

	s := &Server{router: router, store: st, v1: handler}
	s.setupRoutes()
	return s
}

// setupRoutes 라우트 설정
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}
	s.router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

// corsMiddleware 허용 출처 목록. "*" 가 있으면 모두 허용.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Session-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler 테스트용 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 서버 시작. Shutdown 으로 멈추면 nil 을 반환한다.
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 진행 중인 요청을 기다린 뒤 저장소를 닫는다.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// GetStore 저장소 (테스트용)
func (s *Server) GetStore() *store.Store {
	return s.store
}
