package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/attendance"
)

func (h *Handler) markAttendance(c *gin.Context) {
	var in attendance.MarkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	a, err := h.Attendance.Mark(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"attendance": a})
}

func (h *Handler) listAttendance(c *gin.Context) {
	listing, err := h.Attendance.List(c.Request.Context(), viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"attendance": listing})
}

func (h *Handler) attendanceStats(c *gin.Context) {
	var studentID primitive.ObjectID
	if raw := c.Query("student"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err == nil {
			studentID = id
		}
	}
	stats, err := h.Attendance.Stats(c.Request.Context(), viewer(c), studentID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) attendanceStudents(c *gin.Context) {
	semester := 0
	if raw := c.Query("semester"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			semester = parsed
		}
	}
	students, err := h.Attendance.StudentsFor(c.Request.Context(), actor(c), c.Query("department"), semester)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"students": students, "count": len(students)})
}
