package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"ompserver/internal/infra/httpsig"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OMP reference server running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"storage":        s.cfg.StorageBackend,
		"signature_mode": string(s.sigPolicy.Mode()),
	})
}

func (s *Server) handleDiscovery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"omp_version": "0.1",
		"transport":   []string{"http/1.1"},
		"endpoints": gin.H{
			"objects":        "/objects",
			"object":         "/objects/{object_id}",
			"objects_search": "/objects/search",
			"exchange":       "/exchange",
			"store":          "/store",
			"get":            "/get/{key}",
			"delete":         "/delete/{key}",
			"list":           "/list",
			"search":         "/search",
			"health":         "/health",
		},
		"capabilities": []string{"data.write", "data.read", "data.delete", "data.search"},
		"semantics": gin.H{
			"required_context": "json-ld",
			"examples":         []string{"https://schema.org/Dataset"},
		},
		"signature": gin.H{
			"scheme": "ed25519",
			"mode":   string(s.sigPolicy.Mode()),
		},
		"limits": gin.H{
			"max_payload_mb":     s.cfg.MaxPayloadMB,
			"rate_limit_per_min": s.cfg.RateLimitPerMin,
		},
		"server": gin.H{"port": s.cfg.ServerPort()},
	})
}

// requireAdmin guards the runtime administration routes. When no admin key
// is configured the routes do not exist as far as callers can tell.
func (s *Server) requireAdmin(c *gin.Context) bool {
	if s.adminAPIKey == "" {
		writeError(c, http.StatusNotFound, "route not found")
		return false
	}
	key := c.GetHeader("X-Admin-Key")
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		writeError(c, http.StatusUnauthorized, "invalid admin key")
		return false
	}
	return true
}

func (s *Server) handleAdminSignatureMode(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	var in struct {
		Mode string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Mode == "" {
		writeError(c, http.StatusBadRequest, "mode is required")
		return
	}
	mode := httpsig.ParseMode(in.Mode)
	s.sigPolicy.SetMode(mode)
	c.JSON(http.StatusOK, gin.H{"signature_mode": string(mode)})
}

func (s *Server) handleAdminRegisterKey(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	var in struct {
		KeyID     string `json:"keyid"`
		PublicKey string `json:"public_key"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.KeyID == "" || in.PublicKey == "" {
		writeError(c, http.StatusBadRequest, "keyid and public_key are required")
		return
	}
	if err := s.verifier.Keys.RegisterEncoded(in.KeyID, in.PublicKey); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": in.KeyID})
}
