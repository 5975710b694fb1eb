package dto

// UpdateAlertStatusRequest is the PATCH /alerts/:id/status payload.
type UpdateAlertStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=acknowledged resolved"`
}

// AlertListQuery filters GET /alerts.
type AlertListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=active acknowledged resolved"`
}
