package controller

import (
	"errors"
	"net/http"

	"textbook_backend/internal/service"
	"textbook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EventLogResponse is the legacy JSON shape the book's client-side scripts
// expect. The error field must be absent, not null, when nothing went wrong.
type EventLogResponse struct {
	Log             bool   `json:"log"`
	IsAuthenticated bool   `json:"is_authenticated"`
	Error           string `json:"error,omitempty"`
}

type EventController struct {
	Identity *service.IdentityService
	Events   *service.EventService
}

func NewEventController(identity *service.IdentityService, events *service.EventService) *EventController {
	return &EventController{Identity: identity, Events: events}
}

// @Summary Log a book interaction event
// @Description Records a student interaction (answer, page event, timed exam) against the current subject.
// @Tags events
// @Produce json
// @Param course query string true "Course name"
// @Param div_id query string true "Question div id"
// @Param event query string true "Event kind"
// @Param act query string false "Action for this event"
// @Param answer query string false "Answer payload for answer events"
// @Param correct query string false "Correctness flag (T/F) or grade"
// @Param source query string false "Source pane contents (parsons, codelensq)"
// @Success 200 {object} controller.EventLogResponse
// @Router /hsblog [get]
func (c *EventController) LogBookEvent(ctx *gin.Context) {
	// Identity is resolved first: the reconciliation side effect must land
	// before this request's rows are written.
	subject := c.Identity.Resolve(ctx)

	outcome, err := c.Events.LogEvent(ctx.Request.Context(), subject, ctx.Request.URL.Query())
	if err != nil {
		// The single boundary that turns every validation failure into a
		// structured response instead of a server error.
		var verr *util.ValidationError
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusOK, EventLogResponse{
				Log:             false,
				IsAuthenticated: subject.Authenticated,
				Error:           verr.Message,
			})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, EventLogResponse{
		Log:             outcome.Logged,
		IsAuthenticated: subject.Authenticated,
		Error:           outcome.Error,
	})
}
