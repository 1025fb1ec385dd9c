package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/services"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/transport/httpdto"
)

// DoctorHandler handles doctor directory endpoints.
type DoctorHandler struct {
	auth         *services.AuthService
	appointments *services.AppointmentService
}

func NewDoctorHandler(auth *services.AuthService, appointments *services.AppointmentService) *DoctorHandler {
	return &DoctorHandler{auth: auth, appointments: appointments}
}

// List returns every registered doctor.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.auth.GetDoctors(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	dtos := make([]httpdto.UserDTO, 0, len(doctors))
	for i := range doctors {
		dtos = append(dtos, toUserDTO(doctors[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.DoctorsResponse{Doctors: dtos}))
}

// Slots returns the open time slots for a doctor on a given day.
func (h *DoctorHandler) Slots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid doctor id", "INVALID_REQUEST"))
		return
	}
	date := c.Query("date")

	slots, err := h.appointments.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.AvailableSlotsResponse{
		Date:  date,
		Slots: slots,
	}))
}
