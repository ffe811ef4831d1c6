package domain

const (
	ConfigPaymentServiceURL  = "payment_service_url"
	ConfigShipmentServiceURL = "shipment_service_url"

	DefaultPaymentServiceURL = "http://localhost:5555"
)

type Config struct {
	Name string `json:"name" db:"name"`
	Val  string `json:"val" db:"val"`
}
