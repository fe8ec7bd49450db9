package browser

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	identity := Identity{}.withDefaults()

	assert.Equal(t, defaultUserAgent, identity.UserAgent)
	assert.Equal(t, DefaultNavigationTimeout, identity.NavigationTimeout)
	assert.Equal(t, DefaultElementTimeout, identity.ElementTimeout)
	assert.False(t, identity.Headless)
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	identity := Identity{
		UserAgent:         "Custom/1.0",
		Headless:          true,
		NavigationTimeout: time.Minute,
		ElementTimeout:    3 * time.Second,
	}.withDefaults()

	assert.Equal(t, "Custom/1.0", identity.UserAgent)
	assert.Equal(t, time.Minute, identity.NavigationTimeout)
	assert.Equal(t, 3*time.Second, identity.ElementTimeout)
	assert.True(t, identity.Headless)
}

func TestWaitPolicyStates(t *testing.T) {
	assert.Equal(t, *playwright.WaitUntilStateDomcontentloaded, *WaitDOMReady.state())
	assert.Equal(t, *playwright.WaitUntilStateNetworkidle, *WaitNetworkIdle.state())
	// Unknown policies fall back to DOM readiness.
	assert.Equal(t, *playwright.WaitUntilStateDomcontentloaded, *WaitPolicy("").state())
}

func TestRandomDelaySleepsAtLeastMin(t *testing.T) {
	start := time.Now()
	RandomDelay(10, 20)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRandomDelayDegenerateRange(t *testing.T) {
	// min >= max must not panic; it sleeps for min.
	start := time.Now()
	RandomDelay(5, 5)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
