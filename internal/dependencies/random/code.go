package random

// Join codes and user ids are short lowercase codes. They are not checked
// for collisions.
const (
	CodeAlphabet = "qwertyuioplkjhgfdsazxcvbnm"
	CodeLength   = 4
)

// Code generates a 4-letter code for game and user ids
func Code(r Random) string {
	return r.String(CodeLength, CodeAlphabet)
}

// Shuffle randomizes the order of items in place (Fisher-Yates) and
// returns the same slice. Callers must treat the input as consumed.
func Shuffle[T any](r Random, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
