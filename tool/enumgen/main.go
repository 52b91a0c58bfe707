package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
)

type enumValue struct {
	Const string
	Name  string
	Value int64
}

type enumType struct {
	Name   string
	Values []enumValue
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "enumgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fileFlag := flag.String("file", "", "go file containing //go:generate enumgen")
	flag.Parse()

	fileName := strings.TrimSpace(*fileFlag)
	if fileName == "" && flag.NArg() > 0 {
		fileName = strings.TrimSpace(flag.Arg(0))
	}
	if fileName == "" {
		fileName = strings.TrimSpace(os.Getenv("GOFILE"))
	}
	if fileName == "" {
		return errors.New("missing source file; set GOFILE or pass -file")
	}
	fileName = filepath.Base(fileName)
	if filepath.Ext(fileName) != ".go" {
		return fmt.Errorf("source file must be a .go file: %s", fileName)
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles,
		Dir: dir,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			return parser.ParseFile(fset, filename, src, parser.ParseComments)
		},
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		return errors.New("no packages found")
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return fmt.Errorf("type check failed: %s", pkg.Errors[0])
	}
	if pkg.Fset == nil || pkg.Types == nil {
		return errors.New("missing type information")
	}

	var targetFile *ast.File
	for i, file := range pkg.Syntax {
		var name string
		if i < len(pkg.CompiledGoFiles) {
			name = pkg.CompiledGoFiles[i]
		} else if i < len(pkg.GoFiles) {
			name = pkg.GoFiles[i]
		}
		if filepath.Base(name) == fileName {
			targetFile = file
			break
		}
	}
	if targetFile == nil {
		return fmt.Errorf("file %s not found in package", fileName)
	}

	enums, err := collectEnumTypes(targetFile, pkg.Types.Scope(), pkg.TypesInfo, pkg.Fset)
	if err != nil {
		return err
	}
	if len(enums) == 0 {
		return fmt.Errorf("no enum types found in %s", fileName)
	}

	out, err := render(pkg.Name, enums)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(fileName, ".go")
	outPath := filepath.Join(dir, base+"_enumgen.go")
	return os.WriteFile(outPath, out, 0o644)
}

func collectEnumTypes(file *ast.File, scope *types.Scope, info *types.Info, fset *token.FileSet) ([]enumType, error) {
	var results []enumType
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if !commentGroupHasDirective(typeSpec.Doc) && !commentGroupHasDirective(gen.Doc) {
				continue
			}

			obj, ok := info.Defs[typeSpec.Name].(*types.TypeName)
			if !ok || obj == nil {
				pos := fset.Position(typeSpec.Pos())
				return nil, fmt.Errorf("missing type info for %s at %s", typeSpec.Name.Name, pos)
			}
			basic, ok := obj.Type().Underlying().(*types.Basic)
			if !ok || basic.Info()&types.IsInteger == 0 {
				pos := fset.Position(typeSpec.Pos())
				return nil, fmt.Errorf("enumgen requires an integer type at %s", pos)
			}

			values := collectValues(scope, obj)
			if len(values) == 0 {
				pos := fset.Position(typeSpec.Pos())
				return nil, fmt.Errorf("no exported constants of %s at %s", obj.Name(), pos)
			}
			results = append(results, enumType{Name: obj.Name(), Values: values})
		}
	}

	return results, nil
}

func collectValues(scope *types.Scope, typeName *types.TypeName) []enumValue {
	var values []enumValue
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() || !types.Identical(c.Type(), typeName.Type()) {
			continue
		}
		v, exact := constant.Int64Val(constant.ToInt(c.Val()))
		if !exact {
			continue
		}
		trimmed := strings.TrimPrefix(c.Name(), typeName.Name())
		if trimmed == "" {
			continue
		}
		values = append(values, enumValue{Const: c.Name(), Name: upperSnake(trimmed), Value: v})
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// upperSnake converts CamelCase to UPPER_SNAKE keeping acronym runs together.
func upperSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func commentGroupHasDirective(group *ast.CommentGroup) bool {
	if group == nil {
		return false
	}
	for _, comment := range group.List {
		line := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
		if !strings.HasPrefix(line, "go:generate") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "enumgen" {
			return true
		}
	}
	return false
}

func render(pkgName string, enums []enumType) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by enumgen; DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)
	buf.WriteString("import \"fmt\"\n")

	for _, e := range enums {
		buf.WriteString("\n")
		writeEnum(&buf, e)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func writeEnum(buf *bytes.Buffer, e enumType) {
	names := lowerFirst(e.Name) + "Names"
	values := lowerFirst(e.Name) + "Values"
	recv := receiverName(e.Name)

	fmt.Fprintf(buf, "var %s = map[%s]string{\n", names, e.Name)
	for _, v := range e.Values {
		fmt.Fprintf(buf, "\t%s: %q,\n", v.Const, v.Name)
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "var %s = map[string]%s{\n", values, e.Name)
	for _, v := range e.Values {
		fmt.Fprintf(buf, "\t%q: %s,\n", v.Name, v.Const)
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (%s %s) String() string {\n", recv, e.Name)
	fmt.Fprintf(buf, "\tif name, ok := %s[%s]; ok {\n", names, recv)
	fmt.Fprintf(buf, "\t\treturn name\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn fmt.Sprintf(\"%s(%%d)\", int64(%s))\n", e.Name, recv)
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "// Parse%s parses a canonical %s name.\n", e.Name, e.Name)
	fmt.Fprintf(buf, "func Parse%s(s string) (%s, error) {\n", e.Name, e.Name)
	fmt.Fprintf(buf, "\tif v, ok := %s[s]; ok {\n", values)
	fmt.Fprintf(buf, "\t\treturn v, nil\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn 0, fmt.Errorf(\"invalid %s: %%q\", s)\n", e.Name)
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (%s %s) MarshalText() ([]byte, error) {\n", recv, e.Name)
	fmt.Fprintf(buf, "\tif _, ok := %s[%s]; !ok {\n", names, recv)
	fmt.Fprintf(buf, "\t\treturn []byte{}, nil\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn []byte(%s.String()), nil\n", recv)
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (%s *%s) UnmarshalText(text []byte) error {\n", recv, e.Name)
	fmt.Fprintf(buf, "\tif len(text) == 0 {\n")
	fmt.Fprintf(buf, "\t\t*%s = 0\n", recv)
	fmt.Fprintf(buf, "\t\treturn nil\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\tv, err := Parse%s(string(text))\n", e.Name)
	fmt.Fprintf(buf, "\tif err != nil {\n")
	fmt.Fprintf(buf, "\t\treturn err\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\t*%s = v\n", recv)
	fmt.Fprintf(buf, "\treturn nil\n")
	fmt.Fprintf(buf, "}\n")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func receiverName(typeName string) string {
	if typeName == "" {
		return "v"
	}
	r := strings.ToLower(typeName[:1])
	if r[0] < 'a' || r[0] > 'z' {
		return "v"
	}
	return r
}
