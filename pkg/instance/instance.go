package instance

import "os"

// GetID returns an identifier for this process, preferring the platform's
// dyno name, then the container hostname.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
