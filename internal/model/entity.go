package model

// ModelKind discriminates entity types that share one persistence container
type ModelKind string

const (
	KindQuestion   ModelKind = "Question"
	KindUser       ModelKind = "User"
	KindUserAnswer ModelKind = "UserAnswer"
	KindGame       ModelKind = "Game"
)

// Valid returns true if the kind is one of the known model kinds
func (k ModelKind) Valid() bool {
	switch k {
	case KindQuestion, KindUser, KindUserAnswer, KindGame:
		return true
	default:
		return false
	}
}
