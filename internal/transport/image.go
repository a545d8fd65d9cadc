package transport

import "bytes"

// SniffImageMimeType detects the MIME type of an image payload from its
// leading magic bytes. Unrecognized payloads default to JPEG, matching the
// most common case for photo attachments.
func SniffImageMimeType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte{0x47, 0x49, 0x46, 0x38}):
		return "image/gif"
	case bytes.HasPrefix(data, []byte{0x52, 0x49, 0x46, 0x46}):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
