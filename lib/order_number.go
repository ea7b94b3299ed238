package lib

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	PrefixOrder         = "CMD"
	PrefixPurchaseOrder = "BC"
	PrefixInvoice       = "FAC"
)

// GenerateReference generates a reference in the format: PREFIX-YYMM-XXXXX
// where XXXXX is a random 5-character alphanumeric string
func GenerateReference(prefix string) string {
	// Use a local rand.Source + rand.Rand for thread safety
	src := rand.NewSource(time.Now().UnixNano())
	r := rand.New(src)

	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const length = 5

	// Generate random part
	randomPart := make([]byte, length)
	for i := range randomPart {
		randomPart[i] = chars[r.Intn(len(chars))]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("0601"), string(randomPart))
}
