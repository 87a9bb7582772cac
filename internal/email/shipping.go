package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/motortrade/notification-api/internal/dispatch"
	"github.com/motortrade/notification-api/internal/mailer"
	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/internal/template"
	"github.com/motortrade/notification-api/pkg/errors"
)

const shippingTemplate = "shipping_status.html"

// TypeShippingStatus routes shipping notifications to ShippingHandler.
const TypeShippingStatus = "shipping_status"

// ShippingHandler renders and sends vehicle shipping status emails
// (In Transit, Arrived at Port, Customs Clearance, ...).
type ShippingHandler struct {
	renderer *template.Renderer
	mailer   mailer.Mailer
	logger   zerolog.Logger
}

func NewShippingHandler(renderer *template.Renderer, m mailer.Mailer, logger zerolog.Logger) *ShippingHandler {
	return &ShippingHandler{renderer: renderer, mailer: m, logger: logger}
}

func (h *ShippingHandler) SendStatusUpdate(ctx context.Context, shipping *model.ShippingStatusEmail) (*dispatch.Outcome, error) {
	if err := shipping.Validate(); err != nil {
		return nil, errors.InvalidPayload(err.Error(), err)
	}

	text, err := h.renderer.Load(shippingTemplate)
	if err != nil {
		return nil, err
	}

	carInfo := shipping.VehicleLabel()
	statusMessage := shippingStatusMessage(shipping.OldStatus, shipping.NewStatus)

	trackingFragment := fmt.Sprintf(
		`<div style="text-align: center;"><a href="%s" class="tracking-button">Track Your Shipment</a></div>`,
		shipping.TrackingURL)

	body := h.renderer.Render(text, map[string]interface{}{
		"customer_name":          shipping.CustomerName,
		"status_message":         statusMessage,
		"new_status":             shipping.NewStatus,
		"car_info":               carInfo,
		"chassis_number_section": h.renderer.Section(shipping.ChassisNumber, infoItem("Chassis Number", shipping.ChassisNumber)),
		"shipping_order_section": h.renderer.Section(shipping.ShippingOrderID, infoItem("Shipping Order ID", shipping.ShippingOrderID)),
		"vessel_section":         h.renderer.Section(shipping.VesselName, infoItem("Vessel Name", shipping.VesselName)),
		"voyage_section":         h.renderer.Section(shipping.VoyageNumber, infoItem("Voyage Number", shipping.VoyageNumber)),
		"container_section":      h.renderer.Section(shipping.ContainerNumber, infoItem("Container Number", shipping.ContainerNumber)),
		"bl_section":             h.renderer.Section(shipping.BillOfLading, infoItem("Bill of Lading", shipping.BillOfLading)),
		"port_loading_section":   h.renderer.Section(shipping.PortOfLoading, infoItem("Port of Loading", shipping.PortOfLoading)),
		"port_discharge_section": h.renderer.Section(shipping.PortOfDischarge, infoItem("Port of Discharge", shipping.PortOfDischarge)),
		"eta_section":            h.renderer.Section(shipping.EstimatedArrivalDate, infoItem("Estimated Arrival", shipping.EstimatedArrivalDate)),
		"ata_section":            h.renderer.Section(shipping.ActualArrivalDate, infoItem("Actual Arrival", shipping.ActualArrivalDate)),
		"delivery_date_section":  h.renderer.Section(shipping.DeliveryDate, infoItem("Delivery Date", shipping.DeliveryDate)),
		"tracking_section":       h.renderer.Section(shipping.TrackingURL, trackingFragment),
		"notes_section":          h.renderer.Section(shipping.Notes, notesBlock(shipping.Notes)),
		"contact_section":        h.renderer.Section(shipping.ContactPerson, infoItem("Contact Person", shipping.ContactPerson)),
	})

	subject := fmt.Sprintf("Shipping Update: %s - %s", shipping.NewStatus, carInfo)
	if err := h.mailer.Send(ctx, shipping.ToEmail, subject, body); err != nil {
		return nil, err
	}

	h.logger.Info().
		Str("to", shipping.ToEmail).
		Str("car", carInfo).
		Str("new_status", shipping.NewStatus).
		Msg("shipping status email sent")

	return &dispatch.Outcome{
		Type:    TypeShippingStatus,
		Message: fmt.Sprintf("Shipping status email sent to %s", shipping.ToEmail),
		Details: map[string]interface{}{
			"car":               carInfo,
			"new_status":        shipping.NewStatus,
			"shipping_order_id": shipping.ShippingOrderID,
			"tracking_url":      shipping.TrackingURL,
		},
	}, nil
}

func shippingStatusMessage(oldStatus, newStatus string) string {
	if oldStatus != "" {
		return fmt.Sprintf(
			"Your vehicle shipping status has been updated from <strong>%s</strong> to <strong>%s</strong>.",
			oldStatus, newStatus)
	}
	return fmt.Sprintf("Your vehicle shipping status is now: <strong>%s</strong>", newStatus)
}

// infoItem is one row in the details box of either template.
func infoItem(label, value string) string {
	return fmt.Sprintf(`<div class="info-item"><strong>%s:</strong> %s</div>`, label, value)
}

func notesBlock(notes string) string {
	return fmt.Sprintf(`<div class="highlight"><p class="info-label">Important Notes</p><p>%s</p></div>`, notes)
}
