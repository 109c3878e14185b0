package helper

import "math/rand"

// Alphabet skips I, O, 0 and 1 so codes survive being read out loud.
const classCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ClassCodeLength = 6

// GenerateClassCode returns a random human-shareable join code.
// Uniqueness is the caller's problem (probe + unique index).
func GenerateClassCode() string {
	b := make([]byte, ClassCodeLength)
	for i := range b {
		b[i] = classCodeAlphabet[rand.Intn(len(classCodeAlphabet))]
	}
	return string(b)
}
