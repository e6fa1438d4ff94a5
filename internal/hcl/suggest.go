package hcl

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// SuggestedPackage is the package label used for generated rules.
const SuggestedPackage = "suggested-disambiguations"

// SuggestRules renders a rule file that settles every ambiguous reference
// in ambiguous, a map from template path to the names found ambiguous in
// it. Each name defaults to "component"; authors are expected to review the
// choice. Paths under appRoot are written relative to it.
func SuggestRules(appRoot string, ambiguous map[string][]string) []byte {
	f := hclwrite.NewEmptyFile()
	pkg := f.Body().AppendNewBlock("package", []string{SuggestedPackage})
	body := pkg.Body()

	files := make([]string, 0, len(ambiguous))
	for file := range ambiguous {
		files = append(files, file)
	}
	slices.Sort(files)

	for i, file := range files {
		names := slices.Clone(ambiguous[file])
		slices.Sort(names)
		names = slices.Compact(names)
		if len(names) == 0 {
			continue
		}
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("app_template", []string{relativeTo(appRoot, file)})
		choices := make(map[string]cty.Value, len(names))
		for _, n := range names {
			choices[n] = cty.StringVal("component")
		}
		block.Body().SetAttributeValue("disambiguate", cty.ObjectVal(choices))
	}
	return f.Bytes()
}

func relativeTo(root, file string) string {
	if root == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
