package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/leave"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

func (h *Handler) listLeaves(c *gin.Context) {
	requests, err := h.Leaves.List(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"leaves": requests, "count": len(requests)})
}

// createLeave accepts a multipart form: startDate, endDate, reason,
// leaveType fields plus optional `attachments` files.
func (h *Handler) createLeave(c *gin.Context) {
	start, err := parseDate(c.PostForm("startDate"))
	if err != nil {
		fail(c, apperr.Validation("invalid startDate"))
		return
	}
	end, err := parseDate(c.PostForm("endDate"))
	if err != nil {
		fail(c, apperr.Validation("invalid endDate"))
		return
	}
	in := leave.CreateInput{
		StartDate: start,
		EndDate:   end,
		Reason:    c.PostForm("reason"),
		LeaveType: model.LeaveType(c.PostForm("leaveType")),
	}
	if in.Reason == "" {
		fail(c, apperr.Validation("reason is required"))
		return
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["attachments"] {
			url, err := h.saveUpload(fh)
			if err != nil {
				fail(c, err)
				return
			}
			in.Attachments = append(in.Attachments, url)
		}
	}

	l, events, err := h.Leaves.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusCreated, gin.H{"leave": l})
}

func (h *Handler) getLeave(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	l, err := h.Leaves.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"leave": l})
}

func (h *Handler) reviewLeave(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var in leave.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	l, events, err := h.Leaves.Review(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusOK, gin.H{"leave": l})
}

func (h *Handler) deleteLeave(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.Leaves.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "leave request withdrawn"})
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
