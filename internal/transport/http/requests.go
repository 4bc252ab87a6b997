package http

type registerRequest struct {
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Location     string `json:"location" validate:"omitempty,max=100"`
	Presentation string `json:"presentation" validate:"omitempty,max=1000"`
	Gender       string `json:"gender" validate:"omitempty,max=30"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Location     *string `json:"location" validate:"omitempty,max=100"`
	Presentation *string `json:"presentation" validate:"omitempty,max=1000"`
	Gender       *string `json:"gender" validate:"omitempty,max=30"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
}

type publishFavorRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,min=3,max=2000"`
	Category    string `json:"category" validate:"required,min=2,max=50"`
	Price       int64  `json:"price" validate:"gte=0"`
	Location    string `json:"location" validate:"omitempty,max=100"`
}

type acceptApplicantRequest struct {
	ApplicantID string `json:"applicant_id" validate:"required,custom_id,min=1,max=100"`
}

type rateFavorRequest struct {
	Score   float64 `json:"score" validate:"required,score"`
	Comment string  `json:"comment" validate:"omitempty,max=1000"`
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,custom_id,min=1,max=100"`
	Text        string `json:"text" validate:"required,max=5000"`
}
