package http

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"ompserver/internal/config"
	"ompserver/internal/domain"
	"ompserver/internal/infra/httpsig"
	"ompserver/internal/infra/ratelimit"
	"ompserver/internal/usecase"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	sigPolicy *httpsig.Policy
	verifier  *httpsig.Verifier

	objects  *usecase.ObjectService
	exchange *usecase.ExchangeService
	data     *usecase.DataStore

	adminAPIKey string

	rateLimiter     domain.RateLimiter
	rateLimitPerMin int
	maxPayloadBytes int64
}

type ServerDeps struct {
	Objects     *usecase.ObjectService
	Exchange    *usecase.ExchangeService
	Data        *usecase.DataStore
	Keys        *httpsig.Resolver
	SigPolicy   *httpsig.Policy
	RateLimiter domain.RateLimiter
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		r:           r,
		sigPolicy:   deps.SigPolicy,
		objects:     deps.Objects,
		exchange:    deps.Exchange,
		data:        deps.Data,
		adminAPIKey: cfg.AdminAPIKey,
		rateLimiter: deps.RateLimiter,
	}
	if s.sigPolicy == nil {
		s.sigPolicy = httpsig.NewPolicy(httpsig.ParseMode(cfg.SigMode))
	}
	keys := deps.Keys
	if keys == nil {
		var err error
		keys, err = resolverFromConfig(cfg)
		if err != nil {
			log.Printf("signature key configuration rejected: %v", err)
			keys, _ = httpsig.NewResolver(nil, "", "")
		}
	}
	s.verifier = &httpsig.Verifier{Keys: keys}

	if s.rateLimiter == nil && cfg.RateLimitPerMin > 0 {
		s.rateLimiter = ratelimit.NewMemoryLimiter(nil)
	}
	s.rateLimitPerMin = cfg.RateLimitPerMin
	s.maxPayloadBytes = int64(cfg.MaxPayloadMB) << 20

	s.routes()
	return s
}

func resolverFromConfig(cfg config.Config) (*httpsig.Resolver, error) {
	entries, err := cfg.SigKeyEntries()
	if err != nil {
		return nil, err
	}
	return httpsig.NewResolver(entries, cfg.SigKeyID, cfg.SigEd25519Pub)
}

// Keys exposes the resolver so callers can register keys directly, which is
// how tests install per-case key material.
func (s *Server) Keys() *httpsig.Resolver {
	return s.verifier.Keys
}

func (s *Server) SigPolicy() *httpsig.Policy {
	return s.sigPolicy
}

func (s *Server) routes() {
	s.r.GET("/", s.handleRoot)
	s.r.GET("/health", s.handleHealth)
	s.r.GET("/.well-known/omp.json", s.handleDiscovery)

	s.r.PUT("/admin/signature-mode", s.handleAdminSignatureMode)
	s.r.POST("/admin/keys", s.handleAdminRegisterKey)

	signed := s.r.Group("", s.limitPayload, s.enforceRateLimit, s.requireSignature)
	{
		signed.POST("/objects", s.handleStoreObject)
		signed.GET("/objects", s.handleListObjects)
		signed.GET("/objects/search", s.handleSearchObjects)
		signed.GET("/objects/:object_id", s.handleGetObject)
		signed.PUT("/objects/:object_id", s.handleUpdateObject)
		signed.DELETE("/objects/:object_id", s.handleDeleteObject)

		signed.POST("/exchange", s.handleExchange)

		signed.POST("/store", s.handleLegacyStore)
		signed.GET("/get/:key", s.handleLegacyGet)
		signed.DELETE("/delete/:key", s.handleLegacyDelete)
		signed.GET("/list", s.handleLegacyList)
		signed.GET("/search", s.handleLegacySearch)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeError(c, 404, "route not found")
	})
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() *gin.Engine {
	return s.r
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

func (s *Server) rateLimitWindow() time.Duration {
	return time.Minute
}
