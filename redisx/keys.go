package redisx

import "time"

const (
	// Dedup processed webhook events: webhook:event:{event_id} -> 1
	KeyWebhookEvent = "webhook:event:%s"

	// Payment intent issued for a user's checkout: checkout:intent:{user_id} -> intent_id
	KeyCheckoutIntent = "checkout:intent:%s"
)

var (
	TTLWebhookDedup   = 48 * time.Hour
	TTLCheckoutIntent = 24 * time.Hour
)
