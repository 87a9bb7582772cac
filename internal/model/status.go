package model

import (
	"fmt"
)

// PurchasingStatusEmail is the validated projection of a purchase_status
// payload, built per dispatch attempt and discarded after the handler
// returns.
type PurchasingStatusEmail struct {
	// Customer details
	ToEmail      string `json:"to_email" mapstructure:"to_email"`
	CustomerName string `json:"customer_name" mapstructure:"customer_name"`

	// Vehicle details
	CarMake       string `json:"car_make" mapstructure:"car_make"`
	CarModel      string `json:"car_model" mapstructure:"car_model"`
	CarYear       string `json:"car_year" mapstructure:"car_year"`
	ChassisNumber string `json:"chassis_number" mapstructure:"chassis_number"`

	// Status transition
	OldStatus string `json:"old_status" mapstructure:"old_status"`
	NewStatus string `json:"new_status" mapstructure:"new_status"`

	// Purchase details
	PurchaseOrderID      string `json:"purchase_order_id" mapstructure:"purchase_order_id"`
	LCNumber             string `json:"lc_number" mapstructure:"lc_number"`
	SupplierName         string `json:"supplier_name" mapstructure:"supplier_name"`
	PortOfLoading        string `json:"port_of_loading" mapstructure:"port_of_loading"`
	ExpectedShippingDate string `json:"expected_shipping_date" mapstructure:"expected_shipping_date"`
	PurchasePrice        string `json:"purchase_price" mapstructure:"purchase_price"`
	Currency             string `json:"currency" mapstructure:"currency"`

	// Additional information
	Notes         string `json:"notes" mapstructure:"notes"`
	ContactPerson string `json:"contact_person" mapstructure:"contact_person"`
}

func (p *PurchasingStatusEmail) Validate() error {
	return requireFields(map[string]string{
		"to_email":   p.ToEmail,
		"car_make":   p.CarMake,
		"car_model":  p.CarModel,
		"new_status": p.NewStatus,
	})
}

// VehicleLabel is the display label, "Make Model" with the year in
// parentheses when present.
func (p *PurchasingStatusEmail) VehicleLabel() string {
	return vehicleLabel(p.CarMake, p.CarModel, p.CarYear)
}

// ShippingStatusEmail is the validated projection of a shipping_status
// payload.
type ShippingStatusEmail struct {
	// Customer details
	ToEmail      string `json:"to_email" mapstructure:"to_email"`
	CustomerName string `json:"customer_name" mapstructure:"customer_name"`

	// Vehicle details
	CarMake       string `json:"car_make" mapstructure:"car_make"`
	CarModel      string `json:"car_model" mapstructure:"car_model"`
	CarYear       string `json:"car_year" mapstructure:"car_year"`
	ChassisNumber string `json:"chassis_number" mapstructure:"chassis_number"`

	// Status transition
	OldStatus string `json:"old_status" mapstructure:"old_status"`
	NewStatus string `json:"new_status" mapstructure:"new_status"`

	// Shipping details
	ShippingOrderID      string `json:"shipping_order_id" mapstructure:"shipping_order_id"`
	VesselName           string `json:"vessel_name" mapstructure:"vessel_name"`
	VoyageNumber         string `json:"voyage_number" mapstructure:"voyage_number"`
	ContainerNumber      string `json:"container_number" mapstructure:"container_number"`
	BillOfLading         string `json:"bill_of_lading" mapstructure:"bill_of_lading"`
	PortOfLoading        string `json:"port_of_loading" mapstructure:"port_of_loading"`
	PortOfDischarge      string `json:"port_of_discharge" mapstructure:"port_of_discharge"`
	EstimatedArrivalDate string `json:"estimated_arrival_date" mapstructure:"estimated_arrival_date"`
	ActualArrivalDate    string `json:"actual_arrival_date" mapstructure:"actual_arrival_date"`
	DeliveryDate         string `json:"delivery_date" mapstructure:"delivery_date"`
	TrackingURL          string `json:"tracking_url" mapstructure:"tracking_url"`

	// Additional information
	Notes         string `json:"notes" mapstructure:"notes"`
	ContactPerson string `json:"contact_person" mapstructure:"contact_person"`
}

func (s *ShippingStatusEmail) Validate() error {
	return requireFields(map[string]string{
		"to_email":   s.ToEmail,
		"car_make":   s.CarMake,
		"car_model":  s.CarModel,
		"new_status": s.NewStatus,
	})
}

func (s *ShippingStatusEmail) VehicleLabel() string {
	return vehicleLabel(s.CarMake, s.CarModel, s.CarYear)
}

func vehicleLabel(make, model, year string) string {
	label := fmt.Sprintf("%s %s", make, model)
	if year != "" {
		label += fmt.Sprintf(" (%s)", year)
	}
	return label
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("missing required field: %s", name)
		}
	}
	return nil
}
