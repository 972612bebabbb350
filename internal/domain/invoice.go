package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const invoicePrefix = "INV"

// NewInvoiceNumber generates INV-YYYYMMDD-XXXXXXXX
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return invoicePrefix + "-" + now.Format("20060102") + "-" + suffix
}
