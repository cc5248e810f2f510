package validate

import "strings"

type SignupPayload struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,trimmin=7"`
}

type SignupInput struct {
	Email    string
	Username string
	Password string
}

func ParseSignup(p SignupPayload) (SignupInput, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Username = strings.TrimSpace(p.Username)
	if err := Struct("Invalid input.", p); err != nil {
		return SignupInput{}, err
	}
	return SignupInput{Email: p.Email, Username: p.Username, Password: p.Password}, nil
}

type LoginPayload struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func ParseLogin(p LoginPayload) (LoginPayload, error) {
	p.Login = strings.TrimSpace(p.Login)
	if err := Struct("invalid login payload", p); err != nil {
		return LoginPayload{}, err
	}
	return p, nil
}
