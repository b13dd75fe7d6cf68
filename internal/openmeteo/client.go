package openmeteo

import (
	"net/http"
	"time"
)

// providerTimeout bounds one Open-Meteo round-trip, forecast or geocoding.
// The provider normally answers in well under a second, so a request this
// slow is treated as a failure instead of holding a caller open.
const providerTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: providerTimeout}
}
