package dto

type FeaturePaymentResponse struct {
	PaymentURL string  `json:"payment_url"`
	TranID     string  `json:"tran_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// PaymentCallbackRequest is posted by the gateway as a form; JSON is accepted too.
type PaymentCallbackRequest struct {
	TranID string `form:"tran_id" json:"tran_id"`
	Status string `form:"status" json:"status"`
	ValID  string `form:"val_id" json:"val_id"`
}
