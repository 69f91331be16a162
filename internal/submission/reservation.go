package submission

import (
	"crypto/rand"
)

const (
	reservationPrefix   = "BK"
	reservationLength   = 8
	reservationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces reservation codes. Injected so tests can pin codes.
type CodeGenerator func() string

// NewReservationCode returns "BK" followed by 8 random characters from
// [A-Z0-9]. Collisions are not checked.
func NewReservationCode() string {
	code := make([]byte, 0, len(reservationPrefix)+reservationLength)
	code = append(code, reservationPrefix...)

	// Rejection sampling keeps the distribution uniform over 36 symbols.
	limit := byte(256 - 256%len(reservationAlphabet))
	buf := make([]byte, reservationLength*2)
	for len(code) < cap(code) {
		if _, err := rand.Read(buf); err != nil {
			panic("submission: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, reservationAlphabet[int(b)%len(reservationAlphabet)])
			if len(code) == cap(code) {
				break
			}
		}
	}
	return string(code)
}
