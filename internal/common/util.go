package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// The terminal client uses it to drop passwords from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
