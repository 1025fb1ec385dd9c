package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/appointment"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/services"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/transport/httpdto"
)

// AppointmentHandler handles appointment HTTP endpoints. Ownership and
// role rules live here; the service below only knows the state machine.
type AppointmentHandler struct {
	appointments *services.AppointmentService
	auth         *services.AuthService
}

func NewAppointmentHandler(appointments *services.AppointmentService, auth *services.AuthService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, auth: auth}
}

// Create books an appointment for the authenticated patient.
func (h *AppointmentHandler) Create(c *gin.Context) {
	current, ok := services.CurrentUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	if current.Role != user.RolePatient {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("only patients can book appointments", "FORBIDDEN"))
		return
	}

	var req httpdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid doctor id", "INVALID_REQUEST"))
		return
	}

	doctor, err := h.auth.GetUserByID(c.Request.Context(), doctorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if doctor.Role != string(user.RoleDoctor) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("doctor not found", "INVALID_REQUEST"))
		return
	}

	appt, err := h.appointments.CreateAppointment(c.Request.Context(), services.CreateAppointmentInput{
		PatientID:   current.ID,
		PatientName: current.Name,
		DoctorID:    doctorID,
		DoctorName:  doctor.Name,
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		Reason:      req.Reason,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toAppointmentDTO(appt)))
}

// List returns the authenticated user's appointments, patient or doctor
// side depending on role.
func (h *AppointmentHandler) List(c *gin.Context) {
	current, ok := services.CurrentUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var (
		appts []appointment.Appointment
		err   error
	)
	if current.Role == user.RoleDoctor {
		appts, err = h.appointments.GetDoctorAppointments(c.Request.Context(), current.ID)
	} else {
		appts, err = h.appointments.GetPatientAppointments(c.Request.Context(), current.ID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	dtos := make([]httpdto.AppointmentDTO, 0, len(appts))
	for i := range appts {
		dtos = append(dtos, toAppointmentDTO(appts[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.AppointmentsResponse{Appointments: dtos}))
}

// Get returns a single appointment the caller participates in.
func (h *AppointmentHandler) Get(c *gin.Context) {
	current, ok := services.CurrentUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid appointment id", "INVALID_REQUEST"))
		return
	}

	appt, err := h.appointments.GetAppointmentByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if appt.PatientID != current.ID && appt.DoctorID != current.ID {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toAppointmentDTO(appt)))
}

// Update applies a status transition or a notes change. Patients may
// only cancel their own appointments; doctors may approve, reject,
// complete or cancel theirs and attach notes.
func (h *AppointmentHandler) Update(c *gin.Context) {
	current, ok := services.CurrentUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid appointment id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.Status == nil && req.Notes == nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("nothing to update", "INVALID_REQUEST"))
		return
	}

	appt, err := h.appointments.GetAppointmentByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !allowedUpdate(current, appt, req) {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	in := services.UpdateAppointmentInput{Notes: req.Notes}
	if req.Status != nil {
		status := appointment.Status(*req.Status)
		in.Status = &status
	}

	updated, err := h.appointments.UpdateAppointment(c.Request.Context(), id, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toAppointmentDTO(updated)))
}

func allowedUpdate(current services.CurrentUser, appt appointment.Appointment, req httpdto.UpdateAppointmentRequest) bool {
	switch current.Role {
	case user.RoleDoctor:
		return appt.DoctorID == current.ID
	case user.RolePatient:
		if appt.PatientID != current.ID {
			return false
		}
		// Patients may only cancel; notes stay doctor-side.
		if req.Notes != nil {
			return false
		}
		return req.Status != nil && appointment.Status(*req.Status) == appointment.StatusCancelled
	default:
		return false
	}
}

func toAppointmentDTO(a appointment.Appointment) httpdto.AppointmentDTO {
	return httpdto.AppointmentDTO{
		ID:          a.ID.String(),
		PatientID:   a.PatientID.String(),
		DoctorID:    a.DoctorID.String(),
		PatientName: a.PatientName,
		DoctorName:  a.DoctorName,
		Date:        a.Date.Format("2006-01-02"),
		TimeSlot:    a.TimeSlot,
		Status:      string(a.Status),
		Reason:      a.Reason,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.Format(timeFormat),
		UpdatedAt:   a.UpdatedAt.Format(timeFormat),
	}
}
