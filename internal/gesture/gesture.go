// Package gesture holds the static gesture dictionaries for the hand
// prosthesis: class-ID mappings and per-gesture servo position tables.
// Everything here is read-only configuration data with process-wide
// lifetime; nothing mutates it after init.
package gesture

// Servo channel indices for the six-servo hand.
const (
	ServoThumb = iota
	ServoIndex
	ServoMiddle
	ServoRing
	ServoPinky
	ServoWrist
	NumServos
)

// BasicGestures maps the initial 3-class gesture set to class IDs.
var BasicGestures = map[string]int{
	"open_hand":   0, // all fingers extended
	"closed_fist": 1, // all fingers closed
	"peace_sign":  2, // index and middle extended
}

// TSLAlphabet maps the 29 Turkish Sign Language letters to class IDs.
var TSLAlphabet = map[string]int{
	"A": 0, "B": 1, "C": 2, "Ç": 3, "D": 4, "E": 5, "F": 6, "G": 7,
	"Ğ": 8, "H": 9, "I": 10, "İ": 11, "J": 12, "K": 13, "L": 14,
	"M": 15, "N": 16, "O": 17, "Ö": 18, "P": 19, "R": 20, "S": 21,
	"Ş": 22, "T": 23, "U": 24, "Ü": 25, "V": 26, "Y": 27, "Z": 28,
}

// BasicServoPositions gives the target angle (0-180 degrees) per servo
// channel, in the order thumb, index, middle, ring, pinky, wrist.
var BasicServoPositions = map[string][NumServos]uint8{
	"open_hand":   {180, 180, 180, 180, 180, 90},
	"closed_fist": {0, 0, 0, 0, 0, 90},
	"peace_sign":  {0, 180, 180, 0, 0, 90},
}

// basicNames is BasicGestures inverted, indexed by class ID.
var basicNames = func() []string {
	names := make([]string, len(BasicGestures))
	for name, id := range BasicGestures {
		names[id] = name
	}
	return names
}()

// ClassNames returns the gesture names of the basic set ordered by
// class ID, the class_names argument the trainer documents in emitted
// artifacts.
func ClassNames() []string {
	out := make([]string, len(basicNames))
	copy(out, basicNames)
	return out
}

// Name returns the basic gesture name for a class ID, or "" when the ID
// is out of range.
func Name(class int) string {
	if class < 0 || class >= len(basicNames) {
		return ""
	}
	return basicNames[class]
}

// ServoPositions returns the servo angles for a basic gesture name.
func ServoPositions(name string) ([NumServos]uint8, bool) {
	p, ok := BasicServoPositions[name]
	return p, ok
}
