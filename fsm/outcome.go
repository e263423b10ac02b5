package fsm

// Unit is the payload of triggers that carry no data.
type Unit = struct{}

// Never is the failure payload of triggers that cannot fail. It has no
// implementations, so the only Never value is nil.
type Never interface {
	never()
}

// Outcome is the result of checking a trigger: a success payload O when the
// trigger passed or a failure payload E when it did not.
type Outcome[O, E any] struct {
	value   O
	failure E
	passed  bool
}

// Pass returns a passing outcome.
func Pass[O, E any](v O) Outcome[O, E] {
	return Outcome[O, E]{value: v, passed: true}
}

// Fail returns a failing outcome.
func Fail[O, E any](v E) Outcome[O, E] {
	return Outcome[O, E]{failure: v}
}

// Passed reports whether the trigger passed.
func (o Outcome[O, E]) Passed() bool {
	return o.passed
}

// Value returns the success payload; the zero value when the trigger failed.
func (o Outcome[O, E]) Value() O {
	return o.value
}

// Failure returns the failure payload; the zero value when the trigger passed.
func (o Outcome[O, E]) Failure() E {
	return o.failure
}

// Unpack returns both payloads and whether the trigger passed.
func (o Outcome[O, E]) Unpack() (O, E, bool) {
	return o.value, o.failure, o.passed
}

// swap turns a pass into a fail and the other way around.
func (o Outcome[O, E]) swap() Outcome[E, O] {
	return Outcome[E, O]{value: o.failure, failure: o.value, passed: !o.passed}
}

// Either holds the payload of exactly one of two triggers.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left wraps the payload of the first trigger.
func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

// Right wraps the payload of the second trigger.
func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

// Left returns the left payload if it is the one that is set.
func (e Either[L, R]) Left() (L, bool) {
	return e.left, !e.isRight
}

// Right returns the right payload if it is the one that is set.
func (e Either[L, R]) Right() (R, bool) {
	return e.right, e.isRight
}

// IsRight reports which side is set.
func (e Either[L, R]) IsRight() bool {
	return e.isRight
}

// Pair holds the payloads of two triggers that were both evaluated.
type Pair[A, B any] struct {
	First  A
	Second B
}
