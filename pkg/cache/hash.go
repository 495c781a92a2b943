package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey derives a cache key of the form prefix:digest from arbitrary
// components. The parts are JSON-encoded before hashing so a graph ID and
// a version number fold into one stable digest; [ReportKey] and [GraphKey]
// are the two key shapes built on this.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full 256-bit digest: report keys for distinct graph versions must
	// never collide.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex-encoded SHA-256 digest of data. The file backend
// uses it to turn keys into shard-able file names.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
