package id

import "crypto/rand"

// GenerateID creates a unique 16-character alphanumeric ID.
func GenerateID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}

// GenerateQuestionID creates an ID for learner-authored questions, prefixed
// so they never collide with built-in question set IDs.
func GenerateQuestionID() string {
	return "custom_" + GenerateID()
}
