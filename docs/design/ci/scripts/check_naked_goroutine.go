//go:build ignore

// check_naked_goroutine.go keeps record processing sequential.
//
// Rule: non-test code under cmd/ and internal/ starts no goroutines and does
// not import errgroup. EnsureUnique assumes a single writer, so one identity
// must be fully written before the next is read. There is no exemption marker.

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var forbiddenImports = map[string]string{
	"golang.org/x/sync/errgroup": "errgroup runs work concurrently",
}

func main() {
	fset := token.NewFileSet()
	var violations []string

	for _, root := range []string{"cmd", "internal"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == root {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() || !isSource(path) {
				return nil
			}
			found, err := checkFile(fset, path)
			if err != nil {
				return err
			}
			violations = append(violations, found...)
			return nil
		})
		if err != nil {
			fmt.Printf("[sequential] FAIL: walk %s: %v\n", root, err)
			os.Exit(1)
		}
	}

	if len(violations) > 0 {
		fmt.Printf("[sequential] FAIL: %d concurrency construct(s) in runtime code\n", len(violations))
		for _, v := range violations {
			fmt.Println(v)
		}
		os.Exit(1)
	}
	fmt.Println("[sequential] OK")
}

func isSource(path string) bool {
	return strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")
}

// checkFile reports every go statement and forbidden import in one file.
func checkFile(fset *token.FileSet, path string) ([]string, error) {
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []string
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if why, bad := forbiddenImports[p]; bad {
			out = append(out, fmt.Sprintf("%s: imports %s: %s",
				fset.Position(imp.Pos()), p, why))
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		if g, ok := n.(*ast.GoStmt); ok {
			out = append(out, fmt.Sprintf("%s: go statement: identities are reconciled one at a time",
				fset.Position(g.Pos())))
		}
		return true
	})
	return out, nil
}
