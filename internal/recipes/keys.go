// Package recipes holds the application-facing cache conventions: stable key
// construction, shared tag names and a registry that gives the ops surface
// one handle on every named cache in the process.
package recipes

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// KeyGenerator builds namespaced cache keys. Keys are colon-separated with a
// fixed prefix so unrelated caches sharing a dump or a log line stay
// distinguishable.
type KeyGenerator struct {
	Prefix string
}

// NewKeyGenerator creates a key generator with the given prefix.
func NewKeyGenerator(prefix string) *KeyGenerator {
	if prefix == "" {
		prefix = "tc"
	}
	return &KeyGenerator{Prefix: prefix}
}

// Record keys.
func (kg *KeyGenerator) UserKey(id string) string {
	return fmt.Sprintf("%s:user:%s", kg.Prefix, id)
}

func (kg *KeyGenerator) SessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", kg.Prefix, id)
}

// SearchKey hashes the filter so arbitrary filter structs become fixed-size
// keys. JSON marshaling keeps the serialization deterministic; filters the
// encoder rejects fall back to their formatted representation.
func (kg *KeyGenerator) SearchKey(filter any) string {
	return fmt.Sprintf("%s:search:%s", kg.Prefix, kg.HashFilter(filter))
}

// ListKey covers paginated listings of one resource kind.
func (kg *KeyGenerator) ListKey(resource string, limit, offset int) string {
	return fmt.Sprintf("%s:list:%s:%d:%d", kg.Prefix, resource, limit, offset)
}

// Stats keys.
func (kg *KeyGenerator) StatsKey(date time.Time) string {
	return fmt.Sprintf("%s:stats:%s", kg.Prefix, date.Format("2006-01-02"))
}

func (kg *KeyGenerator) LatestStatsKey() string {
	return fmt.Sprintf("%s:stats:latest", kg.Prefix)
}

// HashFilter returns the md5 hex digest of the filter's JSON serialization.
func (kg *KeyGenerator) HashFilter(filter any) string {
	jsonBytes, err := json.Marshal(filter)
	if err != nil {
		hash := md5.Sum([]byte(fmt.Sprintf("%+v", filter)))
		return hex.EncodeToString(hash[:])
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns an 8-byte md5 prefix for keys that should stay readable.
func (kg *KeyGenerator) ShortHash(data string) string {
	hash := md5.Sum([]byte(data))
	return hex.EncodeToString(hash[:8])
}

// ValidateKey checks that a key belongs to this generator's namespace.
func (kg *KeyGenerator) ValidateKey(key string) bool {
	return strings.HasPrefix(key, kg.Prefix+":")
}

// Broad tags grouping every entry of one kind. Writers attach these next to
// the narrower EntityTag so both bulk and targeted invalidation work.
const (
	TagUsers    = "users"
	TagSessions = "sessions"
	TagSearch   = "search"
	TagStats    = "stats"
)

// EntityTag narrows a kind to one record, e.g. EntityTag("user", "42").
func EntityTag(kind, id string) string {
	return kind + ":" + id
}
