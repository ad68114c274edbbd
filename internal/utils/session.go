package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateSessionID makes an opaque session id for clients that did not
// supply one. Sessions are a client-side grouping, not a server entity.
func GenerateSessionID() string {
	return fmt.Sprintf("%d_%d", time.Now().UnixNano(), rand.Intn(100000))
}
