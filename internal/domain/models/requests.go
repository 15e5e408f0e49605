package models

// TokenRequest binds the ticker path parameter of the inference endpoints.
type TokenRequest struct {
	Token string `param:"token" validate:"required,alphanum,max=10"`
}
