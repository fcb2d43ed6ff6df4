package instance

import (
	"os"

	"github.com/pulseras/storefront-backend/pkg/env"
)

// GetID returns the platform-assigned instance identifier, falling back to the host name
// and then "local".
func GetID() string {
	if id, ok := env.First("DYNO", "K_REVISION"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
