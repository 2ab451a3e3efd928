package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

type responseMeta struct {
	start  time.Time
	values map[string]interface{}
}

// WithResponseMeta arms per-request metadata so handlers can echo cache state
// and processing time in the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now(), values: map[string]interface{}{}})
		c.Next()
	}
}

// SetCacheHit records where the response payload came from.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := metaFrom(c)
	if meta == nil {
		return
	}
	source := "miss"
	if hit {
		source = "hit"
	}
	meta.values["cache"] = source
}

// ExtractMeta snapshots the metadata map, stamping the elapsed time at the
// moment the handler writes its response.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := metaFrom(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta.values)+1)
	for k, v := range meta.values {
		out[k] = v
	}
	out["processing_time_ms"] = time.Since(meta.start).Milliseconds()
	return out
}

func metaFrom(c *gin.Context) *responseMeta {
	if c == nil {
		return nil
	}
	if stored, exists := c.Get(responseMetaKey); exists {
		if typed, ok := stored.(*responseMeta); ok {
			return typed
		}
	}
	return nil
}
