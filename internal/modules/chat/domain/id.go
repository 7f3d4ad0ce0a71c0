package domain

import "regexp"

// deviceSuffix matches the ":<n>" device segment some identifiers carry before the domain.
var deviceSuffix = regexp.MustCompile(`:\d+@`)

// NormalizeID strips the device segment so that "123:7@s.whatsapp.net" and
// "123@s.whatsapp.net" name the same person.
func NormalizeID(id string) string {
	return deviceSuffix.ReplaceAllString(id, "@")
}

// NormalizeIDs normalizes every identifier, keeping order and dropping repeats.
func NormalizeIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = NormalizeID(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
