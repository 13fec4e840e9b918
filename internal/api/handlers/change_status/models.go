package change_status

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}
