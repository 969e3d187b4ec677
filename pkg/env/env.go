// Package env reads process settings that must be known before config.Load,
// such as the log format the bootstrap logger uses.
package env

import "os"

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
