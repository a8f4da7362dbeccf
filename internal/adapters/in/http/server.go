// Package http exposes the parcel lifecycle over a REST API plus websocket
// subscriptions. It translates between the wire shapes and the application
// commands and queries; no business rules live here.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"parcelflow/internal/adapters/out/broadcast"
	"parcelflow/internal/adapters/out/postgres/notificationrepo"
	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
)

// NotificationFeed is the read side of the in-app notification channel.
type NotificationFeed interface {
	ListForAccount(ctx context.Context, accountID kernel.UUID, unreadOnly bool, limit int) ([]notificationrepo.Notification, error)
	MarkRead(ctx context.Context, accountID, notificationID kernel.UUID, now time.Time) error
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createParcelHandler    commands.CreateParcelCommandHandler
	assignParcelHandler    commands.AssignParcelCommandHandler
	bulkAssignHandler      commands.BulkAssignParcelsCommandHandler
	reassignParcelHandler  commands.ReassignParcelCommandHandler
	updateStatusHandler    commands.UpdateStatusCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	markCompletedHandler   commands.MarkCompletedCommandHandler
	cancelParcelHandler    commands.CancelParcelCommandHandler

	trackParcelHandler     queries.TrackParcelQueryHandler
	parcelHistoryHandler   queries.GetParcelHistoryQueryHandler
	pendingParcelsHandler  queries.ListPendingParcelsQueryHandler
	parcelsForActorHandler queries.ListParcelsForActorQueryHandler

	notificationFeed NotificationFeed
	hub              *broadcast.Hub
}

// NewServer creates an HTTP server over the given command and query handlers.
// notificationFeed and hub may be nil when those channels are not deployed;
// their routes then answer 404.
func NewServer(
	createParcelHandler commands.CreateParcelCommandHandler,
	assignParcelHandler commands.AssignParcelCommandHandler,
	bulkAssignHandler commands.BulkAssignParcelsCommandHandler,
	reassignParcelHandler commands.ReassignParcelCommandHandler,
	updateStatusHandler commands.UpdateStatusCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	markCompletedHandler commands.MarkCompletedCommandHandler,
	cancelParcelHandler commands.CancelParcelCommandHandler,
	trackParcelHandler queries.TrackParcelQueryHandler,
	parcelHistoryHandler queries.GetParcelHistoryQueryHandler,
	pendingParcelsHandler queries.ListPendingParcelsQueryHandler,
	parcelsForActorHandler queries.ListParcelsForActorQueryHandler,
	notificationFeed NotificationFeed,
	hub *broadcast.Hub,
) *Server {
	return &Server{
		createParcelHandler:    createParcelHandler,
		assignParcelHandler:    assignParcelHandler,
		bulkAssignHandler:      bulkAssignHandler,
		reassignParcelHandler:  reassignParcelHandler,
		updateStatusHandler:    updateStatusHandler,
		confirmDeliveryHandler: confirmDeliveryHandler,
		markCompletedHandler:   markCompletedHandler,
		cancelParcelHandler:    cancelParcelHandler,
		trackParcelHandler:     trackParcelHandler,
		parcelHistoryHandler:   parcelHistoryHandler,
		pendingParcelsHandler:  pendingParcelsHandler,
		parcelsForActorHandler: parcelsForActorHandler,
		notificationFeed:       notificationFeed,
		hub:                    hub,
	}
}

// RegisterRoutes wires every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/parcels", s.CreateParcel)
	v1.GET("/parcels", s.ListParcels)
	v1.GET("/parcels/pending", s.ListPendingParcels)
	v1.POST("/parcels/bulk-assign", s.BulkAssignParcels)
	v1.POST("/parcels/:parcelId/assign", s.AssignParcel)
	v1.POST("/parcels/:parcelId/reassign", s.ReassignParcel)
	v1.PATCH("/parcels/:parcelId/status", s.UpdateStatus)
	v1.POST("/parcels/:parcelId/confirm-delivery", s.ConfirmDelivery)
	v1.POST("/parcels/:parcelId/complete", s.MarkCompleted)
	v1.POST("/parcels/:parcelId/cancel", s.CancelParcel)
	v1.GET("/parcels/:parcelId/history", s.GetParcelHistory)

	v1.GET("/tracking/:trackingNumber", s.TrackParcel)
	if s.hub != nil {
		v1.GET("/tracking/:trackingNumber/ws", s.TrackParcelLive)
		v1.GET("/events/ws", s.AllEventsLive)
	}

	if s.notificationFeed != nil {
		v1.GET("/notifications", s.ListNotifications)
		v1.POST("/notifications/:notificationId/read", s.MarkNotificationRead)
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateParcel handles POST /api/v1/parcels - registers a new parcel.
func (s *Server) CreateParcel(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request CreateParcelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	sender, err := partyFromPayload(request.Sender)
	if err != nil {
		return respondError(ctx, err)
	}
	recipient, err := partyFromPayload(request.Recipient)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID := kernel.NewUUID()
	cmd, err := commands.NewCreateParcelCommand(
		parcelID,
		actor.ID(),
		sender,
		recipient,
		request.PickupAddress,
		request.DeliveryAddress,
		request.WeightKg,
		request.EstimatedPickupAt,
		request.EstimatedDeliveryAt,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createParcelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, parcelResponse(created))
}

// AssignParcel handles POST /api/v1/parcels/{parcelId}/assign.
func (s *Server) AssignParcel(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request AssignParcelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	driverID, err := kernel.UUIDFromString(request.DriverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAssignParcelCommand(parcelID, driverID, actor, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	assigned, err := s.assignParcelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(assigned))
}

// BulkAssignParcels handles POST /api/v1/parcels/bulk-assign.
func (s *Server) BulkAssignParcels(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request BulkAssignRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	items := make([]commands.BulkAssignItem, 0, len(request.Assignments))
	for _, assignment := range request.Assignments {
		parcelID, idErr := kernel.UUIDFromString(assignment.ParcelID)
		if idErr != nil {
			return respondError(ctx, idErr)
		}
		driverID, idErr := kernel.UUIDFromString(assignment.DriverID)
		if idErr != nil {
			return respondError(ctx, idErr)
		}
		items = append(items, commands.BulkAssignItem{ParcelID: parcelID, DriverID: driverID})
	}

	cmd, err := commands.NewBulkAssignParcelsCommand(items, actor, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.bulkAssignHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := BulkAssignResponse{
		Assigned: make([]string, 0, len(result.Assigned)),
		Failed:   make([]BulkAssignFailurePayload, 0, len(result.Failed)),
	}
	for _, id := range result.Assigned {
		response.Assigned = append(response.Assigned, id.String())
	}
	for _, failure := range result.Failed {
		response.Failed = append(response.Failed, BulkAssignFailurePayload{
			ParcelID: failure.ParcelID.String(),
			DriverID: failure.DriverID.String(),
			Reason:   failure.Reason,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// ReassignParcel handles POST /api/v1/parcels/{parcelId}/reassign.
func (s *Server) ReassignParcel(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request ReassignParcelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	newDriverID, err := kernel.UUIDFromString(request.NewDriverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReassignParcelCommand(parcelID, newDriverID, actor, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.reassignParcelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(updated))
}

// UpdateStatus handles PATCH /api/v1/parcels/{parcelId}/status.
func (s *Server) UpdateStatus(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request UpdateStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	status, err := parcel.StatusFromString(request.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	location, err := locationFromRequest(request)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateStatusCommand(parcelID, status, actor, location, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(updated))
}

// ConfirmDelivery handles POST /api/v1/parcels/{parcelId}/confirm-delivery.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request ConfirmDeliveryRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewConfirmDeliveryCommand(
		parcelID, actor, request.Signature, request.ConfirmedBy, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	confirmed, err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(confirmed))
}

// MarkCompleted handles POST /api/v1/parcels/{parcelId}/complete.
func (s *Server) MarkCompleted(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request CompleteParcelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewMarkCompletedCommand(parcelID, actor, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	completed, err := s.markCompletedHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(completed))
}

// CancelParcel handles POST /api/v1/parcels/{parcelId}/cancel.
func (s *Server) CancelParcel(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request CancelParcelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewCancelParcelCommand(parcelID, actor, request.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	cancelled, err := s.cancelParcelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelResponse(cancelled))
}

// TrackParcel handles GET /api/v1/tracking/{trackingNumber} - the public
// tracking page. No actor context required.
func (s *Server) TrackParcel(ctx echo.Context) error {
	query, err := queries.NewTrackParcelQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.trackParcelHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshot)
}

// TrackParcelLive handles GET /api/v1/tracking/{trackingNumber}/ws - a
// websocket subscription to one parcel's events.
func (s *Server) TrackParcelLive(ctx echo.Context) error {
	trackingNumber := ctx.Param("trackingNumber")
	if err := parcel.ValidateTrackingNumber(trackingNumber); err != nil {
		return respondError(ctx, err)
	}

	return s.hub.Serve(ctx.Response(), ctx.Request(), trackingNumber)
}

// AllEventsLive handles GET /api/v1/events/ws - a websocket subscription to
// every lifecycle event, for dashboards.
func (s *Server) AllEventsLive(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if !actor.IsAdmin() {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "only administrators may follow all events",
		})
	}

	return s.hub.Serve(ctx.Response(), ctx.Request(), "")
}

// GetParcelHistory handles GET /api/v1/parcels/{parcelId}/history.
func (s *Server) GetParcelHistory(ctx echo.Context) error {
	if _, err := actorFromRequest(ctx); err != nil {
		return respondError(ctx, err)
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetParcelHistoryQuery(parcelID)
	if err != nil {
		return respondError(ctx, err)
	}

	history, err := s.parcelHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, history)
}

// ListPendingParcels handles GET /api/v1/parcels/pending.
func (s *Server) ListPendingParcels(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if !actor.IsAdmin() {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "only administrators may list pending parcels",
		})
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "limit must be an integer",
			})
		}
	}

	query, err := queries.NewListPendingParcelsQuery(limit)
	if err != nil {
		return respondError(ctx, err)
	}

	parcels, err := s.pendingParcelsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcels)
}

// ListParcels handles GET /api/v1/parcels - the actor-scoped listing.
func (s *Server) ListParcels(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewListParcelsForActorQuery(actor)
	if err != nil {
		return respondError(ctx, err)
	}

	parcels, err := s.parcelsForActorHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcels)
}

// ListNotifications handles GET /api/v1/notifications - the actor's in-app
// notification feed.
func (s *Server) ListNotifications(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	unreadOnly := ctx.QueryParam("unread") == "true"
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "limit must be an integer",
			})
		}
	}

	rows, err := s.notificationFeed.ListForAccount(ctx.Request().Context(), actor.ID(), unreadOnly, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]NotificationResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, NotificationResponse{
			ID:             row.ID.String(),
			Kind:           row.Kind,
			ParcelID:       row.ParcelID.String(),
			TrackingNumber: row.TrackingNumber,
			Status:         row.Status,
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt,
			ReadAt:         row.ReadAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/{notificationId}/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	notificationID, err := kernel.UUIDFromString(ctx.Param("notificationId"))
	if err != nil {
		return respondError(ctx, err)
	}

	err = s.notificationFeed.MarkRead(ctx.Request().Context(), actor.ID(), notificationID, time.Now())
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func locationFromRequest(request UpdateStatusRequest) (*kernel.Location, error) {
	if request.Location == "" {
		return nil, nil
	}

	var location kernel.Location
	var err error
	if request.Latitude != nil && request.Longitude != nil {
		location, err = kernel.NewLocationWithCoordinates(request.Location, *request.Latitude, *request.Longitude)
	} else {
		location, err = kernel.NewLocation(request.Location)
	}
	if err != nil {
		return nil, err
	}

	return &location, nil
}
