package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/assignment"
)

func (h *Handler) listAssignments(c *gin.Context) {
	views, err := h.Assignments.List(c.Request.Context(), viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"assignments": views, "count": len(views)})
}

func (h *Handler) getAssignment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	view, err := h.Assignments.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"assignment": view})
}

func (h *Handler) createAssignment(c *gin.Context) {
	var in assignment.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	view, events, err := h.Assignments.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusCreated, gin.H{"assignment": view})
}

// submitAssignment accepts a multipart form with the submission under `file`.
func (h *Handler) submitAssignment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, apperr.Validation("submission file is required"))
		return
	}
	url, err := h.saveUpload(fh)
	if err != nil {
		fail(c, err)
		return
	}

	view, events, err := h.Assignments.Submit(c.Request.Context(), actor(c), id, assignment.SubmitInput{
		FileURL:  url,
		FileName: fh.Filename,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusOK, gin.H{"assignment": view})
}

func (h *Handler) gradeSubmission(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	submissionID, valid := objectID(c, "submissionId")
	if !valid {
		return
	}
	var in assignment.GradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	events, err := h.Assignments.Grade(c.Request.Context(), actor(c), id, submissionID, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.dispatch(c, events)
	ok(c, http.StatusOK, gin.H{"message": "submission graded"})
}

func (h *Handler) deleteAssignment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.Assignments.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "assignment deleted"})
}
