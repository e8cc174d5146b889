package utils

// Ptr returns a pointer to v. Useful for populating optional wire fields
// inline.
func Ptr[T any](v T) *T {
	return &v
}
