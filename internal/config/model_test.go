package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelMerge(t *testing.T) {
	base := &Model{
		Options:    Options{StaticComponents: true},
		OptionsSet: true,
		AppRoot:    "/app",
		Packages:   []*PackageRules{{Name: "a"}},
	}

	// A file without options keeps the earlier toggles.
	base.Merge(&Model{Packages: []*PackageRules{{Name: "b"}}})
	assert.True(t, base.Options.StaticComponents)
	assert.Equal(t, "/app", base.AppRoot)

	base.Merge(&Model{
		Options:    Options{StaticHelpers: true},
		OptionsSet: true,
		AppRoot:    "/other",
		Packages:   []*PackageRules{{Name: "c"}},
	})
	assert.False(t, base.Options.StaticComponents)
	assert.True(t, base.Options.StaticHelpers)
	assert.Equal(t, "/other", base.AppRoot)

	names := make([]string, 0, len(base.Packages))
	for _, p := range base.Packages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	base.Merge(nil)
	assert.Len(t, base.Packages, 3)
}

func TestSpecifierNamespace(t *testing.T) {
	assert.Equal(t, DefaultNamespace, Options{}.SpecifierNamespace())
	assert.Equal(t, "#app", Options{Namespace: "#app"}.SpecifierNamespace())
}
