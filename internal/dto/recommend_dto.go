package dto

type FeedbackRequest struct {
	SessionId string   `json:"session_id" validate:"required"`
	Category  string   `json:"category" validate:"required"`
	Intent    string   `json:"intent" validate:"required,oneof=sub_category color fit pattern texture"`
	Values    []string `json:"values" validate:"required,min=1,dive,required"`
}

type SelectRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	ProductId string `json:"product_id" validate:"required"`
}
