package util

// Ptr returns a pointer to v. Handy for optional fields that distinguish
// "absent" from the zero value, like a version floor that may not exist.
func Ptr[T any](v T) *T {
	return &v
}
