package browser

import (
	"math/rand"
	"time"
)

// RandomDelay pauses for a random duration between min and max milliseconds.
// Extractors use it to pace detail-page navigations.
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(rand.Intn(max-min)+min) * time.Millisecond)
}
