package metrics

import "fmt"

// Tag creates a formatted DataDog tag string in "key:value" format.
func Tag(key, value string) string {
	return fmt.Sprintf("%s:%s", key, value)
}

// GeocoderTag creates a backend name tag.
func GeocoderTag(name string) string {
	return Tag("geocoder", name)
}

// OperationTag creates an operation tag.
func OperationTag(op string) string {
	return Tag("operation", op)
}

// StatusTag creates a status tag (hit/miss/error).
func StatusTag(status string) string {
	return Tag("status", status)
}

// ModeTag creates a resolve arity tag (one/all).
func ModeTag(mode string) string {
	return Tag("mode", mode)
}
