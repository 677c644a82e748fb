package admin

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type SetVerifiedRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}
