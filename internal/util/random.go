// Package util provides utility functions for the sitebot application.
package util

import (
	"math/rand/v2"
	"strings"
)

// TicketIDLength is the length of generated ticket identifiers.
const TicketIDLength = 8

// GenerateRandomUpperAlphaNumeric generates a random uppercase alphanumeric
// string of the specified length.
func GenerateRandomUpperAlphaNumeric(length int) string {
	if length <= 0 {
		return ""
	}

	const chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var builder strings.Builder
	builder.Grow(length) // Pre-allocate capacity for efficiency

	for i := 0; i < length; i++ {
		builder.WriteByte(chars[rand.IntN(len(chars))])
	}

	return builder.String()
}

// GenerateTicketID generates a short human-displayable ticket identifier
// attached to leads and escalations.
func GenerateTicketID() string {
	return GenerateRandomUpperAlphaNumeric(TicketIDLength)
}
