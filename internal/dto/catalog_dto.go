package dto

type CourtResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PaymentMethodResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
