package encode

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// EmitHeader renders the encoded forest as a self-contained C header
// for the firmware build: include guards, the per-feature normalization
// arrays, and one RF_Model_t aggregate initializer. Output is
// deterministic for a given encoded forest.
func EmitHeader(ef *Forest, modelName string) string {
	var b strings.Builder
	guard := strings.ToUpper(modelName) + "_H"

	fmt.Fprintf(&b, "#ifndef %s\n", guard)
	fmt.Fprintf(&b, "#define %s\n\n", guard)

	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include \"random_forest.h\"\n\n")

	fmt.Fprintf(&b, "// Model: %s\n", modelName)
	fmt.Fprintf(&b, "// Trees: %d\n", len(ef.Trees))
	fmt.Fprintf(&b, "// Features: %d\n", ef.NumFeatures)
	fmt.Fprintf(&b, "// Classes: %d\n\n", ef.NumClasses)

	b.WriteString("// Feature normalization parameters (Q8.8 format)\n")
	emitFixedArray(&b, modelName+"_feature_scale", ef.FeatureScale, ef.FeatureNames)
	emitFixedArray(&b, modelName+"_feature_offset", ef.FeatureOffset, ef.FeatureNames)

	b.WriteString("// Random Forest model data\n")
	fmt.Fprintf(&b, "const RF_Model_t %s = {\n", modelName)
	fmt.Fprintf(&b, "    .n_trees = %d,\n", len(ef.Trees))
	fmt.Fprintf(&b, "    .n_features = %d,\n", ef.NumFeatures)
	fmt.Fprintf(&b, "    .n_classes = %d,\n", ef.NumClasses)
	b.WriteString("    .trees = {\n")
	for ti := range ef.Trees {
		t := &ef.Trees[ti]
		fmt.Fprintf(&b, "        { // Tree %d\n", ti)
		b.WriteString("            .nodes = {\n")
		for _, n := range t.Nodes {
			fmt.Fprintf(&b, "                {%d, 0x%02X, %d, %d, %d, {0, 0}},\n",
				n.FeatureIndex, n.Flag, n.Threshold, n.Left, n.Right)
		}
		b.WriteString("            },\n")
		fmt.Fprintf(&b, "            .n_nodes = %d,\n", len(t.Nodes))
		b.WriteString("            .root_idx = 0\n")
		b.WriteString("        },\n")
	}
	b.WriteString("    }\n")
	b.WriteString("};\n\n")

	fmt.Fprintf(&b, "#endif // %s\n", guard)

	log.Debug().Str("model", modelName).Int("bytes", b.Len()).Msg("header emitted")
	return b.String()
}

func emitFixedArray(b *strings.Builder, name string, values []int16, featureNames []string) {
	fmt.Fprintf(b, "const fixed_point_t %s[%d] = {\n", name, len(values))
	for i, v := range values {
		if i < len(featureNames) {
			fmt.Fprintf(b, "    %d,  // Feature %d (%s)\n", v, i, featureNames[i])
		} else {
			fmt.Fprintf(b, "    %d,  // Feature %d\n", v, i)
		}
	}
	b.WriteString("};\n\n")
}
