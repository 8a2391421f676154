//go:build ignore

// check_no_runtime_mock.go keeps the in-memory backend test-only.
//
// Rule: non-test code under cmd/ and internal/ must not import
// internal/provider/memory. Runtime wiring opens firebase or postgres.

package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	memoryImport      = "github.com/sungjintrb/rtdb-admin/internal/provider/memory"
	runtimeMockNolint = "//nolint:runtime-mock"
)

func main() {
	var violations []string

	targetDirs := []string{"cmd", "internal"}
	for _, dir := range targetDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			if strings.HasPrefix(filepath.ToSlash(path), "internal/provider/memory/") {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			if strings.Contains(string(content), runtimeMockNolint) {
				return nil
			}

			fset := token.NewFileSet()
			node, err := parser.ParseFile(fset, path, content, parser.ImportsOnly)
			if err != nil {
				return nil
			}
			for _, imp := range node.Imports {
				p, err := strconv.Unquote(imp.Path.Value)
				if err != nil || p != memoryImport {
					continue
				}
				pos := fset.Position(imp.Pos())
				violations = append(violations, fmt.Sprintf("%s:%d: runtime code must not import the memory backend", path, pos.Line))
			}
			return nil
		})
	}

	if len(violations) == 0 {
		fmt.Println("OK: no runtime memory backend wiring found")
		return
	}

	fmt.Println("FAIL: runtime memory backend wiring detected")
	for _, v := range violations {
		fmt.Println(" -", v)
	}
	fmt.Println("Rule: the memory backend is test-only. Runtime must open firebase or postgres.")
	os.Exit(1)
}
