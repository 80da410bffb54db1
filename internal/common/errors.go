package common

import "fmt"

// InputShapeError reports input arrays whose dimensions violate the
// contract of the component receiving them, e.g. a feature vector whose
// length does not match a trained forest's feature count.
type InputShapeError struct {
	Want int
	Got  int
	What string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("input shape: %s: want %d, got %d", e.What, e.Want, e.Got)
}

// InsufficientDataError reports a training set too small or too
// imbalanced for the requested stratified cross-validation fold count.
type InsufficientDataError struct {
	Folds  int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %d-fold stratified CV: %s", e.Folds, e.Reason)
}

// EncodingOverflowError reports a forest value that does not fit the
// encoded node's bit layout: feature index or child index above one
// byte, class label above 7 bits, or a threshold outside int16 Q8.8.
type EncodingOverflowError struct {
	Field string
	Value int64
	Max   int64
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("encoding overflow: %s value %d exceeds limit %d", e.Field, e.Value, e.Max)
}

// DeserializationError reports a persisted model payload that is
// corrupt, foreign, or violates forest invariants. Loading never
// returns a partially populated forest alongside one of these.
type DeserializationError struct {
	Path   string
	Reason string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize model %q: %s", e.Path, e.Reason)
}
