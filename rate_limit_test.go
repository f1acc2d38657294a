package senfi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClient_ParseRateLimitHeaders(t *testing.T) {
	var got []RateLimitInfo
	client := New(WithRateLimitCallback(func(info RateLimitInfo) {
		got = append(got, info)
	}))

	assert.Nil(t, client.RateLimitInfo())
	assert.False(t, client.ShouldThrottle(10))

	client.parseRateLimitHeaders(http.Header{})
	assert.Nil(t, client.RateLimitInfo())
	assert.Empty(t, got)

	h := http.Header{}
	h.Set("X-RateLimit-Limit", "100")
	h.Set("X-RateLimit-Remaining", "5")
	h.Set("X-RateLimit-Reset", "1700000000")
	client.parseRateLimitHeaders(h)

	info := client.RateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 100, info.Limit)
	assert.Equal(t, 5, info.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0), info.Reset)
	require.Len(t, got, 1)
	assert.Equal(t, *info, got[0])

	assert.True(t, client.ShouldThrottle(10))
	assert.False(t, client.ShouldThrottle(5))

	h = http.Header{}
	h.Set("X-RateLimit-Remaining", "not-a-number")
	client.parseRateLimitHeaders(h)
	assert.Equal(t, RateLimitInfo{}, *client.RateLimitInfo())
}

func TestClient_RateLimitHeadersFromResponses(t *testing.T) {
	client, ft := newTestClient(t)
	ft.on(http.MethodGet, "/site", func(*Request) (*Outcome, error) {
		out := jsonOutcome(http.StatusOK, `{"success":true,"sites":[]}`)
		out.Header.Set("X-RateLimit-Remaining", "42")
		return out, nil
	})

	_, err := client.GetSites(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client.RateLimitInfo())
	assert.Equal(t, 42, client.RateLimitInfo().Remaining)
}

func TestWithRateLimit(t *testing.T) {
	client, ft := newTestClient(t, WithRateLimit(rate.Every(time.Hour), 1))
	ft.reply(http.MethodGet, "/site", http.StatusOK, `{"success":true,"sites":[]}`)

	_, err := client.GetSites(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.GetSites(ctx)
	assert.True(t, IsSDKException(err))
	assert.Equal(t, 1, ft.count("/site"))

	// Token exchanges bypass the limiter.
	require.NoError(t, client.RefreshToken(context.Background()))
}

func TestWithRateLimit_MinimumBurst(t *testing.T) {
	client := New(WithRateLimit(10, 0))
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())
}
