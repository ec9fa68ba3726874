package env

import (
	"os"
	"strings"
)

// Prefix namespaces the variables read before config.Load runs.
const Prefix = "PETADOPT_"

// Get returns PETADOPT_<key>, then the bare <key>, then fallback. Blank values
// count as unset.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
