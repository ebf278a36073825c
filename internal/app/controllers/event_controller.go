package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/app/services"
	"github.com/deniz/communityevents/internal/middleware"
	"github.com/deniz/communityevents/internal/pkg/helpers"
)

// EventController handles event, registration and event comment operations
type EventController struct {
	eventService        services.EventService
	registrationService services.RegistrationService
	commentService      services.CommentService
}

// NewEventController creates a new EventController
func NewEventController(
	eventService services.EventService,
	registrationService services.RegistrationService,
	commentService services.CommentService,
) *EventController {
	return &EventController{
		eventService:        eventService,
		registrationService: registrationService,
		commentService:      commentService,
	}
}

// GetAllEvents lists events with optional filters
// @Summary List events
// @Description Returns events filtered by community, status, city, text and time range
// @Tags events
// @Produce json
// @Param communityId query int false "Community ID"
// @Param status query string false "Event status"
// @Param city query string false "City"
// @Param search query string false "Title search"
// @Param from query string false "Start time lower bound (RFC3339)"
// @Param to query string false "Start time upper bound (RFC3339)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /events [get]
func (c *EventController) GetAllEvents(ctx *gin.Context) {
	var filter dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	events, err := c.eventService.GetAllEvents(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, events, "Events retrieved")
}

// GetNearbyEvents lists upcoming events near a coordinate
// @Summary List nearby events
// @Description Returns upcoming events within radiusKm of the given point, closest start first
// @Tags events
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radiusKm query number false "Radius in kilometers (default 10)"
// @Success 200 {object} dto.APIResponse{data=[]dto.NearbyEventResponse} "Nearby events retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid coordinates"
// @Router /events/nearby [get]
func (c *EventController) GetNearbyEvents(ctx *gin.Context) {
	var req dto.NearbyEventsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	events, err := c.eventService.GetNearbyEvents(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, events, "Nearby events retrieved")
}

// GetEventByID returns a single event
// @Summary Get event by ID
// @Description Returns an event with its registered count
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	event, err := c.eventService.GetEventByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, event, "Event retrieved")
}

// CreateEvent creates an event in a community
// @Summary Create event
// @Description Creates an event in a community the authenticated user belongs to
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Not a community member"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusCreated, event, "Event created")
}

// UpdateEvent updates an event
// @Summary Update event
// @Description Updates an event's details (creator or admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event fields"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event no longer editable"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateEvent(ctx, id, userID, currentRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, event, "Event updated")
}

// UpdateEventStatus moves an event through its lifecycle
// @Summary Update event status
// @Description Applies a lifecycle transition to an event (creator or admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /events/{id}/status [patch]
func (c *EventController) UpdateEventStatus(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateEventStatus(ctx, id, userID, currentRole(ctx), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, event, "Status updated")
}

// DeleteEvent deletes an event
// @Summary Delete event
// @Description Deletes an event and its registrations (creator or admin only)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.eventService.DeleteEvent(ctx, id, userID, currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, nil, "Event deleted")
}

// Register registers the authenticated user for an event
// @Summary Register for event
// @Description Registers the authenticated user if the event is open and has capacity
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Registration closed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is full or already registered"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	registration, err := c.registrationService.Register(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusCreated, registration, "Registered")
}

// Unregister cancels the authenticated user's registration
// @Summary Unregister from event
// @Description Cancels the authenticated user's active registration, freeing the seat
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Registration cancelled"
// @Failure 404 {object} dto.ErrorResponse "No active registration"
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	cancelled, err := c.registrationService.Unregister(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Registration cancelled"
	if !cancelled {
		message = "No active registration"
	}
	ok(ctx, http.StatusOK, gin.H{"cancelled": cancelled}, message)
}

// GetAttendees lists an event's active attendees
// @Summary List event attendees
// @Description Returns users with an active registration for the event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Attendees retrieved"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/attendees [get]
func (c *EventController) GetAttendees(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	attendees, err := c.registrationService.GetEventAttendees(ctx, id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, attendees, "Attendees retrieved")
}

// GetEventComments lists an event's comments with replies
// @Summary List event comments
// @Description Returns top level comments with their replies, newest first
// @Tags comments
// @Produce json
// @Param id path int true "Event ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CommentListResponse} "Comments retrieved"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/comments [get]
func (c *EventController) GetEventComments(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	comments, err := c.commentService.GetEventComments(ctx, id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusOK, comments, "Comments retrieved")
}

// CreateComment posts a comment on an event
// @Summary Comment on event
// @Description Posts a comment or a single-level reply on an event
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.CreateCommentRequest true "Comment content"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or parent"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/comments [post]
func (c *EventController) CreateComment(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	comment, err := c.commentService.CreateComment(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, http.StatusCreated, comment, "Comment created")
}
