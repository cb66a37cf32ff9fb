package handler

import (
	schedulingapp "github.com/bizcore/backend/internal/application/scheduling"
	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment lifecycle endpoints
type AppointmentHandler struct {
	BaseHandler
	appointmentService *schedulingapp.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService *schedulingapp.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
	}
}

// Book schedules an appointment.
//
// POST /appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req schedulingapp.BookAppointmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Book(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appointment)
}

// Get returns an appointment.
//
// GET /appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Get(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Confirm confirms a scheduled appointment.
//
// POST /appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Confirm(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Start marks an appointment as in progress.
//
// POST /appointments/:id/start
func (h *AppointmentHandler) Start(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Start(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Cancel cancels an appointment that has not been completed.
//
// POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	var req schedulingapp.CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Cancel(c.Request.Context(), tenantID, appointmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// NoShow records that the customer did not attend.
//
// POST /appointments/:id/no-show
func (h *AppointmentHandler) NoShow(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.MarkNoShow(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Complete completes an appointment and derives its commission and service
// revenue. Completing again is answered with already_completed.
//
// POST /appointments/:id/complete
func (h *AppointmentHandler) Complete(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	appointmentID, ok := h.pathID(c, "id", "appointment")
	if !ok {
		return
	}

	var req schedulingapp.CompleteAppointmentRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	result, err := h.appointmentService.Complete(c.Request.Context(), tenantID, actorID, appointmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
