package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ompserver/internal/domain"
	"ompserver/internal/usecase"
)

func (s *Server) handleExchange(c *gin.Context) {
	var env domain.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{err.Error()}})
		return
	}
	result, err := s.exchange.Execute(c.Request.Context(), env)
	if err != nil {
		var envErr *usecase.EnvelopeError
		switch {
		case errors.As(err, &envErr):
			writeError(c, http.StatusBadRequest, envErr.Msg)
		case errors.Is(err, domain.ErrNotFound):
			writeError(c, http.StatusNotFound, "Key not found")
		default:
			writeError(c, http.StatusInternalServerError, "Exchange failed")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
