package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ompserver/internal/domain"
)

// Content fields arrive as json.RawMessage so a present-but-not-an-object
// value can be told apart from an absent one.
type objectIn struct {
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Content   json.RawMessage `json:"content"`
	Metadata  map[string]any  `json:"metadata"`
}

type objectUpdateIn struct {
	Content  json.RawMessage `json:"content"`
	Metadata map[string]any  `json:"metadata"`
}

func (s *Server) handleStoreObject(c *gin.Context) {
	var in objectIn
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{err.Error()}})
		return
	}
	if in.Namespace == "" {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{"namespace is required"}})
		return
	}
	content, err := decodeContent(in.Content)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	obj, err := s.objects.Store(c.Request.Context(), in.Namespace, in.Key, content, in.Metadata)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Store failed")
		return
	}
	c.JSON(http.StatusCreated, obj.WithoutContent())
}

func (s *Server) handleGetObject(c *gin.Context) {
	obj, err := s.objects.Get(c.Request.Context(), c.Param("object_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(c, http.StatusNotFound, "Object not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Get failed")
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (s *Server) handleUpdateObject(c *gin.Context) {
	var in objectUpdateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErrorDetails(c, http.StatusBadRequest, "Invalid request", gin.H{"errors": []string{err.Error()}})
		return
	}
	content, err := decodeContent(in.Content)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	obj, err := s.objects.Update(c.Request.Context(), c.Param("object_id"), content, in.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidContent):
			writeError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(c, http.StatusNotFound, "Object not found")
		default:
			writeError(c, http.StatusInternalServerError, "Update failed")
		}
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (s *Server) handleDeleteObject(c *gin.Context) {
	err := s.objects.Delete(c.Request.Context(), c.Param("object_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(c, http.StatusNotFound, "Object not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListObjects(c *gin.Context) {
	list, err := s.objects.List(c.Request.Context(), queryInt(c, "limit"), c.Query("cursor"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "List failed")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleSearchObjects(c *gin.Context) {
	filter := domain.SearchFilter{
		Namespace:   c.Query("namespace"),
		KeyContains: c.Query("key_contains"),
	}
	list, err := s.objects.Search(c.Request.Context(), filter, queryInt(c, "limit"), c.Query("cursor"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Search failed")
		return
	}
	c.JSON(http.StatusOK, list)
}

// decodeContent requires content to be a JSON object; anything else, nil
// included, is the caller's mistake.
func decodeContent(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, domain.ErrInvalidContent
	}
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil || content == nil {
		return nil, domain.ErrInvalidContent
	}
	return content, nil
}

func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
