package service

// fieldAlias maps one canonical input field to the names clients have used for
// it, in priority order.
type fieldAlias struct {
	canonical string
	names     []string
}

var registrationAliases = []fieldAlias{
	{canonical: "eventId", names: []string{"event_id", "eventId", "event"}},
	{canonical: "name", names: []string{"name", "fullName", "full_name"}},
	{canonical: "email", names: []string{"email"}},
	{canonical: "phone", names: []string{"phone"}},
	{canonical: "regNumber", names: []string{"reg_number", "regNumber"}},
	{canonical: "utr", names: []string{"utr", "utr_id"}},
}

var beatOrderAliases = []fieldAlias{
	{canonical: "buyerName", names: []string{"buyerName", "buyer_name"}},
	{canonical: "buyerEmail", names: []string{"buyerEmail", "buyer_email"}},
	{canonical: "buyerPhone", names: []string{"buyerPhone", "buyer_phone"}},
}

// normalize keeps only the canonical fields. For each one the first alias that
// is present with a non-nil, non-empty value wins. Unknown keys are dropped, so
// callers cannot smuggle in ids, URLs or statuses.
func normalize(raw map[string]any, aliases []fieldAlias) map[string]any {
	out := make(map[string]any, len(aliases))
	for _, a := range aliases {
		for _, name := range a.names {
			v, ok := raw[name]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			out[a.canonical] = v
			break
		}
	}
	return out
}
