package utils

func StringToPointer(s string) *string {
	return &s
}

func IntToPointer(i int) *int {
	return &i
}

func Float32ToPointer(f float32) *float32 {
	return &f
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
