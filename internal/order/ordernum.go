package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newOrderNumber generates a human-readable order number. Uniqueness is not
// guaranteed here; the unique index on order_number is authoritative and the
// commit path retries on collision.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}
