package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order and transaction identifiers are human-readable:
// <PREFIX>-<unix millis>-<random>. The random tail keeps collisions unlikely
// at our write rate; the unique index on the column is the real backstop.

func NewOrderID() string { return prefixedID("ORD") }

func NewTransactionID() string { return prefixedID("TXN") }

func prefixedID(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), raw[:9])
}
