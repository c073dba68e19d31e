package webserver

import (
	"errors"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/catalog"
	"github.com/pulseform/survey-api/src/api/session"
	"github.com/pulseform/survey-api/src/api/submission"
)

// Sessions drives the respondent-facing questionnaire flow: start a session,
// answer one question at a time, then submit contact info.
type Sessions struct {
	catalog   catalog.Service
	store     session.Store
	assembler submission.Assembler
	sanitizer *bluemonday.Policy
}

func NewSessions(db *gorm.DB, rdb *redis.Client, store session.Store) Sessions {
	return Sessions{
		catalog:   catalog.New(db),
		store:     store,
		assembler: submission.New(db, rdb),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h Sessions) Start(c *gin.Context) {
	qs, err := h.catalog.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	sess, err := session.New(qs)
	if err != nil {
		// Empty catalog: refuse to start rather than leave the respondent
		// on a loading screen that never resolves.
		c.JSON(http.StatusConflict, gin.H{"err": "catalog is empty"})
		return
	}
	if err := h.store.Put(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, stateView(sess))
}

func (h Sessions) Show(c *gin.Context) {
	sess := h.load(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, stateView(sess))
}

func (h Sessions) Answer(c *gin.Context) {
	var req struct {
		Response string `json:"response" binding:"required,max=10000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	req.Response = h.sanitizer.Sanitize(req.Response)

	sess := h.load(c)
	if sess == nil {
		return
	}
	switch err := sess.Answer(req.Response); {
	case errors.Is(err, session.ErrEmptyAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	case errors.Is(err, session.ErrNotActive):
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	if err := h.store.Put(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stateView(sess))
}

func (h Sessions) Submit(c *gin.Context) {
	var req struct {
		Instagram   string `json:"instagram"    binding:"max=128"`
		PhoneNumber string `json:"phone_number" binding:"max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	sess := h.load(c)
	if sess == nil {
		return
	}

	contact := submission.Contact{
		Instagram:   html.EscapeString(req.Instagram),
		PhoneNumber: html.EscapeString(req.PhoneNumber),
	}
	id, err := h.assembler.Submit(c, sess, contact)
	if errors.Is(err, session.ErrNotCollecting) {
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
		return
	}
	if err != nil {
		// Answers stay in the stored session; the respondent retries the
		// same batch without re-answering.
		c.JSON(http.StatusInternalServerError, gin.H{"err": "could not store submission"})
		return
	}

	if err := h.store.Put(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission_id": id})
}

func (h Sessions) load(c *gin.Context) *session.Session {
	sess, err := h.store.Get(c, c.Param("id"))
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "session not found"})
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return nil
	}
	return sess
}

func stateView(s *session.Session) gin.H {
	out := gin.H{
		"id":    s.ID,
		"state": s.State,
		"total": len(s.Questions),
	}
	if q, ok := s.Current(); ok {
		out["index"] = s.Index
		out["question"] = q
	}
	return out
}
