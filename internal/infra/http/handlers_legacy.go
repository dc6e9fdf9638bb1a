package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ompserver/internal/domain"
)

// The flat key-value routes predate the objects API and stay for older
// clients.

type legacyItemIn struct {
	Key      string         `json:"key"`
	Value    map[string]any `json:"value"`
	Lifespan string         `json:"lifespan"`
}

func (s *Server) handleLegacyStore(c *gin.Context) {
	var in legacyItemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{err.Error()}})
		return
	}
	if in.Key == "" || in.Value == nil {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{"key and value are required"}})
		return
	}
	if err := s.data.Put(in.Key, in.Value, in.Lifespan); err != nil {
		if errors.Is(err, domain.ErrInvalidLifespan) {
			writeError(c, http.StatusBadRequest, "Invalid lifespan")
			return
		}
		writeError(c, http.StatusInternalServerError, "Store failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stored", "key": in.Key})
}

func (s *Server) handleLegacyGet(c *gin.Context) {
	item, ok := s.data.Get(c.Param("key"))
	if !ok {
		writeError(c, http.StatusNotFound, "Key not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleLegacyDelete(c *gin.Context) {
	if !s.data.Delete(c.Param("key")) {
		writeError(c, http.StatusNotFound, "Key not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (s *Server) handleLegacyList(c *gin.Context) {
	items := s.data.List()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (s *Server) handleLegacySearch(c *gin.Context) {
	results := s.data.Search(c.Query("contains"), c.Query("lifespan"))
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}
