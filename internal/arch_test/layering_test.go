package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. A package at
// layer N may only import packages at layer N or below.
var layers = map[string]int{
	"clock":   0,
	"config":  0,
	"logging": 0,
	"match":   0,

	"cache":  1,
	"schema": 1,

	"fields": 2,
	"input":  2,
	"jira":   2,

	"ui": 3,
}

// forbidden lists imports that would be legal by layer but break the
// separation between read and write paths.
var forbidden = map[string][]string{
	"fields": {"input", "jira"},
	"input":  {"fields", "jira"},
	"jira":   {"cache", "fields", "input"},
}

// TestDependencyLayering verifies that no internal package imports a package
// from a higher layer.
func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			continue
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			importedLayer, ok := layers[imp]
			if !ok {
				continue
			}
			if importerLayer < importedLayer {
				t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
					pkg, importerLayer, imp, importedLayer)
			}
		}
	}
}

// TestForbiddenImports keeps the renderer, the transmogrifier and the
// tracker client independent of one another.
func TestForbiddenImports(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for pkg, banned := range forbidden {
		imports := importsOf(t, filepath.Join(dir, pkg))
		for _, imp := range imports {
			for _, b := range banned {
				if imp == b {
					t.Errorf("%s must not import %s", pkg, b)
				}
			}
		}
	}
}

// TestNoUnknownPackages forces new packages to be placed in the layer map.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}
