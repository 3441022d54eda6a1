package dto

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type SetPersonaRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Persona   string `json:"persona" validate:"required"`
}

type SetTPORequest struct {
	SessionId string `json:"session_id" validate:"required"`
	TPO       string `json:"tpo" validate:"required"`
}

// SetNegativesRequest replaces the whole negative filter; a zero price
// ceiling falls back to the default.
type SetNegativesRequest struct {
	SessionId       string `json:"session_id" validate:"required"`
	DislikedFit     string `json:"disliked_fit"`
	DislikedPattern string `json:"disliked_pattern"`
	PriceCeiling    int    `json:"price_ceiling" validate:"gte=0"`
}

type SessionIdRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}
