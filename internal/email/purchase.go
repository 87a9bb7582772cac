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

const purchaseTemplate = "purchasing_status.html"

// TypePurchaseStatus routes purchase notifications to PurchaseHandler.
const TypePurchaseStatus = "purchase_status"

// PurchaseHandler renders and sends vehicle purchase status emails
// (LC opened, payment processed, documents verified, ...).
type PurchaseHandler struct {
	renderer *template.Renderer
	mailer   mailer.Mailer
	logger   zerolog.Logger
}

func NewPurchaseHandler(renderer *template.Renderer, m mailer.Mailer, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{renderer: renderer, mailer: m, logger: logger}
}

func (h *PurchaseHandler) SendStatusUpdate(ctx context.Context, purchase *model.PurchasingStatusEmail) (*dispatch.Outcome, error) {
	if err := purchase.Validate(); err != nil {
		return nil, errors.InvalidPayload(err.Error(), err)
	}

	text, err := h.renderer.Load(purchaseTemplate)
	if err != nil {
		return nil, err
	}

	carInfo := purchase.VehicleLabel()
	statusMessage := purchaseStatusMessage(purchase.OldStatus, purchase.NewStatus)

	priceFragment := ""
	if purchase.PurchasePrice != "" {
		price := purchase.PurchasePrice
		if purchase.Currency != "" {
			price = purchase.Currency + " " + price
		}
		priceFragment = infoItem("Purchase Price", price)
	}

	body := h.renderer.Render(text, map[string]interface{}{
		"customer_name":           purchase.CustomerName,
		"status_message":          statusMessage,
		"new_status":              purchase.NewStatus,
		"car_info":                carInfo,
		"chassis_number_section":  h.renderer.Section(purchase.ChassisNumber, infoItem("Chassis Number", purchase.ChassisNumber)),
		"purchase_order_section":  h.renderer.Section(purchase.PurchaseOrderID, infoItem("Purchase Order", purchase.PurchaseOrderID)),
		"lc_number_section":       h.renderer.Section(purchase.LCNumber, infoItem("LC Number", purchase.LCNumber)),
		"supplier_section":        h.renderer.Section(purchase.SupplierName, infoItem("Supplier", purchase.SupplierName)),
		"price_section":           h.renderer.Section(purchase.PurchasePrice, priceFragment),
		"port_loading_section":    h.renderer.Section(purchase.PortOfLoading, infoItem("Port of Loading", purchase.PortOfLoading)),
		"shipping_date_section":   h.renderer.Section(purchase.ExpectedShippingDate, infoItem("Expected Shipping Date", purchase.ExpectedShippingDate)),
		"notes_section":           h.renderer.Section(purchase.Notes, notesBlock(purchase.Notes)),
		"contact_section":         h.renderer.Section(purchase.ContactPerson, infoItem("Contact Person", purchase.ContactPerson)),
	})

	subject := fmt.Sprintf("Purchase Update: %s - %s", purchase.NewStatus, carInfo)
	if err := h.mailer.Send(ctx, purchase.ToEmail, subject, body); err != nil {
		return nil, err
	}

	h.logger.Info().
		Str("to", purchase.ToEmail).
		Str("car", carInfo).
		Str("new_status", purchase.NewStatus).
		Msg("purchase status email sent")

	return &dispatch.Outcome{
		Type:    TypePurchaseStatus,
		Message: fmt.Sprintf("Purchase status email sent to %s", purchase.ToEmail),
		Details: map[string]interface{}{
			"car":               carInfo,
			"new_status":        purchase.NewStatus,
			"purchase_order_id": purchase.PurchaseOrderID,
		},
	}, nil
}

func purchaseStatusMessage(oldStatus, newStatus string) string {
	if oldStatus != "" {
		return fmt.Sprintf(
			"Great news! Your vehicle purchase status has been updated from <strong>%s</strong> to <strong>%s</strong>.",
			oldStatus, newStatus)
	}
	return fmt.Sprintf("Your vehicle purchase status is now: <strong>%s</strong>", newStatus)
}
