package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrFromPtrWithDefault returns the first non-nil *string value, or the fallback.
func StrFromPtrWithDefault(fallback string, ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StrPtr returns a pointer to a copy of s.
func StrPtr(s string) *string {
	return &s
}

// EqualStrPtr reports whether two optional strings hold the same value.
// A nil pointer and a pointer to "" are treated as equal.
func EqualStrPtr(a, b *string) bool {
	return StrFromPtrWithDefault("", a) == StrFromPtrWithDefault("", b)
}
