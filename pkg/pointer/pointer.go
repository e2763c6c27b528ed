// Package pointer has helpers for optional values
package pointer

// To returns a pointer to a copy of v
func To[T any](v T) *T {
	return &v
}

func String(v string) *string {
	return To(v)
}

// Map applies f to the value behind v. A nil v maps to nil.
func Map[T, U any](v *T, f func(T) U) *U {
	if v == nil {
		return nil
	}
	return To(f(*v))
}
