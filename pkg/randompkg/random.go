// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int) int64 {
	return int64(min) + Intn(max-min+1)
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Payer generates a random payer name.
func Payer() string {
	return String(8)
}

// PointsBetween generates a random whole amount of points between min and max.
func PointsBetween(min, max int) decimal.Decimal {
	return decimal.NewFromInt(IntBetween(min, max))
}

// Timestamp generates a random UTC timestamp within a year after 2020-01-01, truncated to seconds.
func Timestamp() time.Time {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration(Intn(365*24*60*60)) * time.Second)
}
