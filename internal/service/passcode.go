package service

import (
	"math/rand"
	"strconv"
)

const (
	passcodeMin  = 1000
	passcodeSpan = 9000
)

// GeneratePasscode returns a 4-digit numeric invite code, "1000" through
// "9999". Passcodes are scoped per event, collisions across events are fine.
func GeneratePasscode() string {
	return strconv.Itoa(passcodeMin + rand.Intn(passcodeSpan))
}
