package merge

type undefined struct{}

// Undefined marks a tree value as "not set". It never overwrites a target value.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Trees returns a new tree holding target with every source merged over it in
// order. Neither target nor the sources are modified.
//
// A source key set to Undefined is skipped; a key set to nil overwrites.
// When both sides hold a tree the merge recurses; otherwise the source value
// (slices included) replaces the target value.
func Trees(target map[string]any, sources ...map[string]any) map[string]any {
	out := make(map[string]any, len(target))
	for k, v := range target {
		out[k] = v
	}
	for _, src := range sources {
		mergeTree(out, src)
	}
	return out
}

func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		if IsUndefined(v) {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[k].(map[string]any); ok {
				dst[k] = Trees(cur, sub)
			} else {
				dst[k] = Trees(nil, sub)
			}
			continue
		}
		dst[k] = v
	}
}
