package dto

import "time"

type ShareLookbookRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type ShareLookbookResponse struct {
	Id        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
