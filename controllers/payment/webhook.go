// Package paymentControllers handles the inbound Stripe webhook: signature
// verification, event dedup, and the paid-order side effects.
package paymentControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"

	orderControllers "github.com/mMahabub/proshopp-api/controllers/order"
	"github.com/mMahabub/proshopp-api/events"
	"github.com/mMahabub/proshopp-api/mailer"
	"github.com/mMahabub/proshopp-api/models"
	"github.com/mMahabub/proshopp-api/pricing"
	"github.com/mMahabub/proshopp-api/redisx"
)

const maxWebhookBody = 64 * 1024

type WebhookHandler struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Producer      *events.Producer
	Mailer        *mailer.Mailer
	WebhookSecret string
}

// POST /api/webhooks/stripe
//
// 400 on signature failure, 500 on internal error, 200 for everything else
// including events we do not handle, so the processor stops redelivering.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	// Dedup on the event id; Stripe retries until it sees a 2xx. The key is
	// written only after the event is fully handled, so a failed delivery
	// stays eligible for redelivery.
	dedupKey := fmt.Sprintf(redisx.KeyWebhookEvent, event.ID)
	if h.Redis != nil && redisx.Seen(c.Request.Context(), h.Redis, dedupKey) {
		c.JSON(http.StatusOK, gin.H{"message": "duplicate event ignored"})
		return
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}
		if err := h.handlePaymentSucceeded(pi.ID); err != nil {
			log.Printf("webhook %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
			return
		}
		h.markProcessed(c, dedupKey)
		c.JSON(http.StatusOK, gin.H{"message": "order marked paid"})

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			log.Printf("payment failed for intent %s", pi.ID)
		}
		h.markProcessed(c, dedupKey)
		c.JSON(http.StatusOK, gin.H{"message": "payment failure noted"})

	default:
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
	}
}

func (h *WebhookHandler) markProcessed(c *gin.Context, key string) {
	if h.Redis == nil {
		return
	}
	if _, err := redisx.MarkOnce(c.Request.Context(), h.Redis, key, redisx.TTLWebhookDedup); err != nil {
		log.Printf("webhook dedup mark: %v", err)
	}
}

func (h *WebhookHandler) handlePaymentSucceeded(paymentIntentID string) error {
	order, err := orderControllers.MarkOrderPaid(h.DB, paymentIntentID)
	if err != nil {
		return fmt.Errorf("mark order paid for intent %s: %w", paymentIntentID, err)
	}

	h.Producer.Emit(events.EventOrderPaid, order.OrderNumber, events.OrderPaidPayload{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		PaymentIntentID: paymentIntentID,
		AmountCents:     pricing.ToMinorUnits(order.TotalPrice),
	})

	// Confirmation email is best effort: log and move on.
	if h.Mailer.Enabled() {
		var user models.User
		if err := h.DB.First(&user, "id = ?", order.UserID).Error; err == nil {
			if err := h.Mailer.SendOrderConfirmation(user.Email, *order); err != nil {
				log.Printf("confirmation email for order %s: %v", order.OrderNumber, err)
			}
		}
	}
	return nil
}
