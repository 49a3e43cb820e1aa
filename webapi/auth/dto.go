package auth

// LoginInput is the request body for the login endpoint. Identity accepts a
// username or an email address.
type LoginInput struct {
	Identity string `json:"identity" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}
