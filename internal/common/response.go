package common

import (
	"encoding/json"
	"net/http"
)

// ApiResponse is the uniform envelope every endpoint returns. StatusCode
// mirrors the HTTP status except for mutation successes, which carry 204
// inside a 200 response so the envelope itself stays readable.
type ApiResponse struct {
	StatusCode    int      `json:"statusCode"`
	IsSuccess     bool     `json:"isSuccess"`
	ErrorMessages []string `json:"errorMessages"`
	Result        any      `json:"result,omitempty"`
}

func NewResponse(statusCode int, result any) ApiResponse {
	return ApiResponse{
		StatusCode:    statusCode,
		IsSuccess:     true,
		ErrorMessages: []string{},
		Result:        result,
	}
}

func NewErrorResponse(statusCode int, messages ...string) ApiResponse {
	if messages == nil {
		messages = []string{}
	}
	return ApiResponse{
		StatusCode:    statusCode,
		IsSuccess:     false,
		ErrorMessages: messages,
	}
}

func RespondWithError(w http.ResponseWriter, code int, messages ...string) {
	RespondWithJSON(w, code, NewErrorResponse(code, messages...))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"statusCode":500,"isSuccess":false,"errorMessages":["Failed to marshal JSON response"]}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
