package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/aggregate"
	"github.com/pulseform/survey-api/src/api/types"
)

// Responses serves the admin review view over submitted answers.
type Responses struct {
	db  *gorm.DB
	agg aggregate.Service
}

func NewResponses(db *gorm.DB) Responses {
	return Responses{db: db, agg: aggregate.New(db)}
}

// List returns answers newest first. With ?question_id= it narrows to one
// question (and for scale questions honors ?sort=asc|desc on the numeric
// value); without a filter it groups rows into submissions unless
// ?grouped=0 asks for the raw rows.
func (h Responses) List(c *gin.Context) {
	if qParam := c.Query("question_id"); qParam != "" {
		qid, err := strconv.ParseUint(qParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "bad question id"})
			return
		}
		rows, err := h.agg.FilterByQuestion(c, qid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
			return
		}

		if order := c.Query("sort"); order == "asc" || order == "desc" {
			var q types.Question
			if err := h.db.First(&q, "id = ?", qid).Error; err == nil && q.Type == types.QuestionScale {
				rows = aggregate.SortScale(rows, order == "desc")
			}
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	rows, err := h.agg.FetchAll(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	if c.Query("grouped") == "0" {
		c.JSON(http.StatusOK, rows)
		return
	}
	c.JSON(http.StatusOK, aggregate.GroupBySubmission(rows))
}
