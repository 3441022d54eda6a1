package dto

type CleanupResponse struct {
	Evicted   int `json:"evicted"`
	Remaining int `json:"remaining"`
}
