package common

// Environment variable keys
const (
	EnvModelName       = "MODEL_NAME"
	EnvDataPath        = "DATA_PATH"
	EnvHeaderPath      = "HEADER_PATH"
	EnvModelStorePath  = "MODEL_STORE_PATH"
	EnvSampleRate      = "SAMPLE_RATE"
	EnvNumTrees        = "NUM_TREES"
	EnvMaxDepth        = "MAX_DEPTH"
	EnvMinSamplesSplit = "MIN_SAMPLES_SPLIT"
	EnvMinSamplesLeaf  = "MIN_SAMPLES_LEAF"
	EnvSeed            = "SEED"
	EnvFlashBudget     = "FLASH_BUDGET"
	EnvRAMBudget       = "RAM_BUDGET"
	EnvMetricsPort     = "METRICS_PORT"
)

// Configuration defaults
const (
	DefaultModelName      = "rf_model"
	DefaultModelStorePath = "models/emg-forest.db"
	DefaultHeaderPath     = "rf_model_data.h"
	DefaultSampleRate     = 1000.0
	DefaultSeed           = 42
	DefaultCVFolds        = 5
	DefaultMetricsPort    = 8080
)

// Encoded node layout. One node is always 8 bytes on the target; the
// memory estimator and the encoder must agree on this.
const (
	EncodedNodeBytes = 8
	LeafFlag         = 0x80 // top bit of the flag byte marks a leaf
	LeafClassMask    = 0x7F // low 7 bits of a leaf flag carry the class
	MaxClasses       = 128  // class label must fit the 7-bit leaf field
	MaxNodeIndex     = 255  // child indices are single bytes
	MaxFeatureIndex  = 255  // feature index is a single byte
)

// Q8.8 fixed-point parameters shared by the encoder and the firmware
// traversal contract.
const (
	FixedFractionalBits = 8
	FixedScale          = 1 << FixedFractionalBits
)

// RAM model of the firmware inference path: a float32 slot per feature,
// a one-byte vote accumulator per class, and fixed traversal overhead.
const (
	RAMBytesPerFeature = 4
	RAMBytesPerClass   = 1
	RAMOverheadBytes   = 100
	MinWindowLen       = 2
)

// Validation constants
const (
	MinMetricsPort = 1024
	MaxMetricsPort = 65535
)
