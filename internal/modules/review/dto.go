package review

type CreateReviewRequest struct {
	ReservationID int64  `json:"reservation_id" validate:"required,gt=0"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string `json:"comment,omitempty" validate:"max=2000"`
}
