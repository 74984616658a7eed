package tags

import "strings"

// Suggest completes the last term of a comma separated entry. Known names
// that start with the term (case-insensitive) are returned, skipping names
// already entered earlier in the list. Each suggestion is the full entry
// with the last term replaced.
func Suggest(entry string, vocabulary []string) []string {
	parts := strings.Split(entry, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	last := strings.ToLower(parts[len(parts)-1])
	previous := parts[:len(parts)-1]

	entered := make(map[string]bool, len(previous))
	for _, p := range previous {
		entered[p] = true
	}

	prefix := ""
	if len(previous) > 0 {
		prefix = strings.Join(previous, ", ") + ", "
	}

	var out []string
	for _, name := range vocabulary {
		if entered[name] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), last) {
			out = append(out, prefix+name)
		}
	}
	return out
}
