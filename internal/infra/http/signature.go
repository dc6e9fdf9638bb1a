package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ompserver/internal/infra/httpsig"
)

// requireSignature enforces the configured signature mode on every data
// route. Off skips everything. Permissive accepts unsigned requests but
// rejects half-present or malformed headers, without any cryptography.
// Strict treats any absent header as a missing signature (401) and demands
// at least one signature that verifies; any fault that is not a header
// grammar error fails closed as 401.
func (s *Server) requireSignature(c *gin.Context) {
	mode := s.sigPolicy.Mode()
	if mode == httpsig.ModeOff {
		c.Next()
		return
	}

	sigInput := c.GetHeader("Signature-Input")
	sig := c.GetHeader("Signature")

	if sigInput == "" || sig == "" {
		if mode == httpsig.ModeStrict {
			writeError(c, http.StatusUnauthorized, httpsig.ErrMissingSignature.Error())
			return
		}
		if sigInput == "" && sig == "" {
			c.Next()
			return
		}
		writeError(c, http.StatusBadRequest, "Signature and Signature-Input headers required together")
		return
	}

	si, err := httpsig.ParseSignatureInput(sigInput)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	sigs, err := httpsig.ParseSignature(sig)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	if mode == httpsig.ModePermissive {
		c.Next()
		return
	}

	outcome, err := s.verifier.Verify(s.baseInput(c), si, sigs)
	if err != nil {
		if httpsig.IsMalformed(err) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusUnauthorized, "signature verification failed")
		return
	}
	if !outcome.Accepted {
		writeError(c, http.StatusUnauthorized, httpsig.ErrNoValidSignature.Error())
		return
	}
	c.Next()
}

func (s *Server) baseInput(c *gin.Context) httpsig.BaseInput {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	host, port := s.cfg.ListenerHostPort()
	return httpsig.BaseInput{
		Method:       c.Request.Method,
		Scheme:       scheme,
		Host:         c.Request.Host,
		Path:         c.Request.URL.Path,
		RequestURI:   c.Request.URL.RequestURI(),
		BaseURL:      s.cfg.BaseURL,
		ListenerHost: host,
		ListenerPort: port,
	}
}
