// Package handler wires the domain services to the HTTP surface. Every
// response uses the success envelope; errors map through the apperr
// taxonomy. Post-commit events are handed to the dispatcher after the
// response data is ready, never blocking or failing the request.
package handler

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/assignment"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/attendance"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/auth"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/event"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/leave"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/mentoring"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/notification"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/realtime"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/store"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/upload"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/user"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Users         *user.Service
	Assignments   *assignment.Service
	Attendance    *attendance.Service
	Leaves        *leave.Service
	Mentoring     *mentoring.Service
	Notifications *notification.Service

	Auth       *auth.Middleware
	Dispatcher *event.Dispatcher
	Hub        *realtime.Hub
	Storage    upload.Storage

	DB    *store.DB
	Redis *store.Redis
}

// ok writes the success envelope with extra payload fields.
func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail writes the error envelope. Internal errors are logged and their
// message hidden in release mode.
func fail(c *gin.Context, err error) {
	msg := err.Error()
	if apperr.CodeOf(err) == apperr.CodeInternal {
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if gin.Mode() == gin.ReleaseMode {
			msg = "server error"
		}
	}
	c.JSON(apperr.Status(err), gin.H{"success": false, "message": msg})
}

// failBinding converts a gin binding error to a validation envelope.
func failBinding(c *gin.Context, err error) {
	fail(c, apperr.Validation(err.Error()))
}

// actor returns the user loaded by RequireUser.
func actor(c *gin.Context) *model.User {
	usr, _ := auth.CurrentUser(c)
	return usr
}

// viewer returns the user loaded by OptionalUser, nil when anonymous.
func viewer(c *gin.Context) *model.User {
	usr, ok := auth.CurrentUser(c)
	if !ok {
		return nil
	}
	return usr
}

// objectID parses a path parameter as an object id.
func objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		fail(c, apperr.Validation("invalid "+param))
		return primitive.NilObjectID, false
	}
	return id, true
}

// dispatch hands the post-commit events to the sinks.
func (h *Handler) dispatch(c *gin.Context, events []event.Event) {
	if h.Dispatcher != nil && len(events) > 0 {
		h.Dispatcher.Dispatch(c.Request.Context(), events)
	}
}

// saveUpload stores one multipart file and returns its URL.
func (h *Handler) saveUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return h.Storage.Save(data, fh.Filename)
}

func (h *Handler) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := h.DB != nil && h.DB.Healthy(ctx)
	redisHealthy := h.Redis != nil && h.Redis.Healthy(ctx)
	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}
