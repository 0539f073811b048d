package rdx

import (
	"strconv"

	"suretips/globals"
)

const availabilityHash = "plans:availability"

// MirrorAvailability writes the full plan availability map to the fallback
// hash. Called after every successful toggle and after every live fetch, so
// viewer pages can degrade gracefully when the plans collection is down.
func MirrorAvailability(m map[string]bool) error {
	if len(m) == 0 {
		return nil
	}
	fields := make([]any, 0, len(m)*2)
	for name, avail := range m {
		fields = append(fields, name, strconv.FormatBool(avail))
	}
	return Conn.HSet(globals.Ctx, availabilityHash, fields...).Err()
}

// FallbackAvailability reads the mirrored map. Missing hash yields an empty
// map and no error; callers treat absent entries as sold out.
func FallbackAvailability() (map[string]bool, error) {
	raw, err := RdxHgetall(availabilityHash)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(raw))
	for name, v := range raw {
		b, _ := strconv.ParseBool(v)
		out[name] = b
	}
	return out, nil
}
