package dto

// MessageRequest is the communication hub form.
type MessageRequest struct {
	To      string `json:"to" form:"to" validate:"required"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// ApplicationRequest is the online application form.
type ApplicationRequest struct {
	Type        string `json:"type" form:"type" validate:"omitempty,oneof=student staff"`
	FullName    string `json:"full_name" form:"full_name" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone" validate:"required"`
	ApplyingFor string `json:"applying_for" form:"applying_for" validate:"required"`
	CoverLetter string `json:"cover_letter" form:"cover_letter"`
}
