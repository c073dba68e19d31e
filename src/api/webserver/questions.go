package webserver

import (
	"errors"
	"html"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/catalog"
)

type Questions struct {
	svc catalog.Service
}

func NewQuestions(db *gorm.DB) Questions {
	return Questions{svc: catalog.New(db)}
}

func (h Questions) List(c *gin.Context) {
	qs, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qs)
}

func (h Questions) Create(c *gin.Context) {
	var req struct {
		Text    string   `json:"text"    binding:"required,max=1000"`
		Type    string   `json:"type"    binding:"required,oneof=scale text multiple_choice"`
		Options []string `json:"options" binding:"max=20,dive,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	req.Text = html.EscapeString(req.Text)
	for i, opt := range req.Options {
		req.Options[i] = html.EscapeString(opt)
	}

	q, err := h.svc.Create(req.Text, req.Type, req.Options)
	switch {
	case errors.Is(err, catalog.ErrEmptyText), errors.Is(err, catalog.ErrBadType):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, q)
}

// Reorder applies a drag-and-drop result: the body lists every question ID in
// its new display order, persisted in one transaction.
func (h Questions) Reorder(c *gin.Context) {
	var req struct {
		IDs []uint64 `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.svc.Reorder(req.IDs); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"err": "unknown question in sequence"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h Questions) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad question id"})
		return
	}

	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
