package redisx

import "time"

const (
	// Session token -> customer id: session:{token}
	KeySession = "session:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Monthly revenue counter in cents: analytics:revenue:{YYYY-MM}
	KeyRevenueMonth = "analytics:revenue:%s"

	// Order count counter: analytics:orders:{YYYY-MM}
	KeyOrdersMonth = "analytics:orders:%s"

	// Cached settings blob per customer: settings:{customer_id}
	KeySettings = "settings:%s"
)

var (
	TTLSession       = 24 * time.Hour
	TTLDedup         = 48 * time.Hour
	TTLSettingsCache = 5 * time.Minute
)
