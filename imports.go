package k6x

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

// type imports are erased, every other import statement is kept even when its bindings are unused
const tsconfigRaw = `{"compilerOptions":{"verbatimModuleSyntax":true}}`

var reExport = regexp.MustCompile(`(?m)^\s*export\s*(?:\*(?:\s*as\s+[^\s;"']+)?|\{[^}]*\})\s*from\s*"([^"]+)"`)

// Imports holds the module specifiers referenced by a script, as written.
type Imports struct {
	// Imports are specifiers of import statements, require calls and dynamic imports
	Imports []string
	// Reexports are specifiers of export ... from statements
	Reexports []string
}

// ImportLister lists the module specifiers referenced by a script.
type ImportLister interface {
	ListImports(path string, src []byte) (Imports, error)
}

// ImportListerFunc adapts a function to the ImportLister interface.
type ImportListerFunc func(path string, src []byte) (Imports, error)

// ListImports calls f(path, src).
func (f ImportListerFunc) ListImports(path string, src []byte) (Imports, error) {
	return f(path, src)
}

// DefaultImportLister returns the ImportLister used when none is given in Options.
// The specifiers are the ones esbuild resolves while parsing the script, so text
// inside strings and comments is never taken for an import.
// Syntax errors are reported as ErrScript.
func DefaultImportLister() ImportLister {
	return ImportListerFunc(listImports)
}

func listImports(filename string, src []byte) (Imports, error) {
	specifiers, err := resolveSpecifiers(filename, src)
	if err != nil {
		return Imports{}, err
	}

	reexported, err := reexportedSpecifiers(filename, src)
	if err != nil {
		return Imports{}, err
	}

	var imports Imports

	seen := make(map[string]struct{}, len(specifiers))

	for _, spec := range specifiers {
		if _, dup := seen[spec]; dup {
			continue
		}

		seen[spec] = struct{}{}

		if _, found := reexported[spec]; found {
			imports.Reexports = append(imports.Reexports, spec)
		} else {
			imports.Imports = append(imports.Imports, spec)
		}
	}

	return imports, nil
}

// resolveSpecifiers bundles the script alone, recording every specifier esbuild
// asks to resolve and keeping it external.
// Computed import paths (import(`./${name}.js`)) are not listed.
func resolveSpecifiers(filename string, src []byte) ([]string, error) {
	var (
		mu         sync.Mutex
		specifiers []string
	)

	recorder := api.Plugin{
		Name: "k6x-imports",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				switch args.Kind {
				case api.ResolveJSImportStatement,
					api.ResolveJSRequireCall,
					api.ResolveJSDynamicImport,
					api.ResolveJSRequireResolve:
					mu.Lock()
					specifiers = append(specifiers, args.Path)
					mu.Unlock()
				default:
				}

				return api.OnResolveResult{Path: args.Path, External: true}, nil //nolint:exhaustruct
			})

			// files matched by computed import paths are never read
			build.OnLoad(api.OnLoadOptions{Filter: ".*"}, func(api.OnLoadArgs) (api.OnLoadResult, error) {
				empty := ""

				return api.OnLoadResult{Contents: &empty, Loader: api.LoaderJS}, nil //nolint:exhaustruct
			})
		},
	}

	result := api.Build(api.BuildOptions{ //nolint:exhaustruct
		Stdin: &api.StdinOptions{
			Contents:   string(src),
			Sourcefile: filename,
			Loader:     loader(filename),
		},
		Bundle:      true,
		Write:       false,
		LogLevel:    api.LogLevelSilent,
		Target:      api.ESNext,
		Format:      api.FormatESModule,
		Platform:    api.PlatformNeutral,
		TsconfigRaw: tsconfigRaw,
		Plugins:     []api.Plugin{recorder},
	})

	for _, msg := range result.Errors {
		// every literal specifier is external, only computed import paths can be unresolved
		if strings.HasPrefix(msg.Text, "Could not resolve") {
			continue
		}

		return nil, scriptError(filename, msg)
	}

	return specifiers, nil
}

// reexportedSpecifiers returns the specifiers of the export ... from statements of the script.
func reexportedSpecifiers(filename string, src []byte) (map[string]struct{}, error) {
	code, err := normalizeScript(filename, src)
	if err != nil {
		return nil, err
	}

	reexported := make(map[string]struct{})

	for _, match := range reExport.FindAllSubmatch(code, -1) {
		reexported[string(match[1])] = struct{}{}
	}

	return reexported, nil
}

// normalizeScript prints the script with one statement per line, comments dropped and double quoted specifiers.
func normalizeScript(filename string, src []byte) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{ //nolint:exhaustruct
		LogLevel:      api.LogLevelSilent,
		Target:        api.ESNext,
		Format:        api.FormatESModule,
		Loader:        loader(filename),
		LegalComments: api.LegalCommentsNone,
		Sourcefile:    filename,
		TsconfigRaw:   tsconfigRaw,
	})

	if len(result.Errors) > 0 {
		return nil, scriptError(filename, result.Errors[0])
	}

	return result.Code, nil
}

func scriptError(filename string, msg api.Message) error {
	if msg.Location == nil {
		return fmt.Errorf("%s: %w: %s", filename, ErrScript, msg.Text)
	}

	return fmt.Errorf(
		"%s:%d:%d: %w: %s",
		filename,
		msg.Location.Line,
		msg.Location.Column+1,
		ErrScript,
		msg.Text,
	)
}

func loader(filename string) api.Loader {
	switch path.Ext(filename) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	default:
		return api.LoaderJS
	}
}
