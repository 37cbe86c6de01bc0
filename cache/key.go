package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/vecmem/codec"
)

// cacheControlKeys are option fields that change how a request is served but
// not what it returns. They are excluded from keys so equivalent requests
// collide correctly.
var cacheControlKeys = map[string]struct{}{
	"skipCache": {},
	"noCache":   {},
	"stream":    {},
}

// BuildKey builds a deterministic cache key from a query, a result count,
// and request options. String queries are used verbatim; any other query is
// serialized with the codec. Options are sorted by name.
func BuildKey(c codec.Codec, query any, k int, options map[string]any) string {
	if c == nil {
		c = codec.Default
	}

	var sb strings.Builder
	switch q := query.(type) {
	case string:
		sb.WriteString(q)
	default:
		b, err := c.Marshal(query)
		if err != nil {
			// Unserializable queries still need a stable key.
			sb.WriteString(fmt.Sprintf("%v", query))
		} else {
			sb.Write(b)
		}
	}

	fmt.Fprintf(&sb, "|k=%d", k)

	names := make([]string, 0, len(options))
	for name := range options {
		if _, skip := cacheControlKeys[name]; skip {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := options[name]
		if v == nil {
			continue
		}
		if b, err := c.Marshal(v); err == nil {
			fmt.Fprintf(&sb, "|%s=%s", name, b)
		} else {
			fmt.Fprintf(&sb, "|%s=%v", name, v)
		}
	}

	return sb.String()
}
