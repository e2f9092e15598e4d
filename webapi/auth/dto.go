package auth

// LoginInput represents the request body for admin authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Nom   string `json:"nom"`
		Email string `json:"email"`
	} `json:"admin"`
}
