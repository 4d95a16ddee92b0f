package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/mentoring"
)

func (h *Handler) listMentoring(c *gin.Context) {
	sessions, err := h.Mentoring.List(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (h *Handler) createMentoring(c *gin.Context) {
	var in mentoring.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	m, events, err := h.Mentoring.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusCreated, gin.H{"session": m})
}

func (h *Handler) getMentoring(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	m, err := h.Mentoring.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"session": m})
}

func (h *Handler) updateMentoring(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var in mentoring.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	m, events, err := h.Mentoring.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusOK, gin.H{"session": m})
}

func (h *Handler) cancelMentoring(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	events, err := h.Mentoring.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusOK, gin.H{"message": "session cancelled"})
}

func (h *Handler) mentoringAttendance(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.Mentoring.MarkAttendance(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (h *Handler) mentoringFeedback(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var in struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	if err := h.Mentoring.Feedback(c.Request.Context(), actor(c), id, in.Feedback); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "feedback recorded"})
}
