// Package web defines common components for a web application.
package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string `json:"access_token,omitempty"`
	AccessTokenExpiresAt string `json:"access_token_expires_at,omitempty"`
	Data                 any    `json:"data,omitempty"`
	Error                string `json:"error,omitempty"`
}

// GetErrorMsg renders the first binding validation error as a readable message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	fe := ve[0]

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s field must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s field must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s field must be greater than %s", fe.Field(), fe.Param())
	case "currency":
		return fmt.Sprintf("%s field must be a supported currency code", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s field must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s field is invalid", fe.Field())
	}
}
