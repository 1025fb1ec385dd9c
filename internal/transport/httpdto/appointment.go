package httpdto

// CreateAppointmentRequest is used for POST /v1/appointments
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"timeSlot" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// UpdateAppointmentRequest is used for PATCH /v1/appointments/:id.
// Both fields are optional; omitting status yields a notes-only update.
type UpdateAppointmentRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// AppointmentDTO represents an appointment in API responses
type AppointmentDTO struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	DoctorID    string `json:"doctorId"`
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// AppointmentsResponse is returned when listing appointments
type AppointmentsResponse struct {
	Appointments []AppointmentDTO `json:"appointments"`
}

// AvailableSlotsResponse is returned by GET /v1/doctors/:id/slots
type AvailableSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
