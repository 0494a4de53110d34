// Package gen generates typed contract client code from Go interface
// definitions. Each interface method becomes a client method that converts
// its arguments to ScVals and invokes the matching contract function.
package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
)

// Param is a single method parameter.
type Param struct {
	Name string
	// Type is the Go type as written in the interface.
	Type string
}

// Method is a contract function exposed on the generated client.
type Method struct {
	// Name is the Go method name.
	Name string
	// FunctionName is the on-chain contract function name.
	FunctionName string
	Params       []Param
}

// Model describes one interface to generate a client for.
type Model struct {
	// Name is the interface name; the client is named {Name}Client.
	Name    string
	Methods []Method
}

// supportedParamTypes maps Go parameter types to the conversion used in
// generated code.
var supportedParamTypes = map[string]string{
	"bool":          "sorobango.ScBool",
	"uint32":        "sorobango.ScU32",
	"int32":         "sorobango.ScI32",
	"uint64":        "sorobango.ScU64",
	"int64":         "sorobango.ScI64",
	"string":        "sorobango.ScString",
	"[]byte":        "sorobango.ScBytes",
	"time.Duration": "sorobango.ScDuration",
	"xdr.ScVal":     "",
}

// ParseFile parses Go source and returns a model for every interface it
// declares. Methods named like constructors are dropped, since
// constructors run at deployment rather than through invocation.
func ParseFile(filename string, src []byte) ([]Model, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	var models []Model
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				continue
			}
			model, err := parseInterface(typeSpec.Name.Name, ifaceType)
			if err != nil {
				return nil, err
			}
			models = append(models, model)
		}
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("%s declares no interfaces", filename)
	}
	return models, nil
}

func parseInterface(name string, iface *ast.InterfaceType) (Model, error) {
	model := Model{Name: name}

	for _, field := range iface.Methods.List {
		funcType, ok := field.Type.(*ast.FuncType)
		if !ok || len(field.Names) == 0 {
			return Model{}, fmt.Errorf("interface %s embeds other types, which is not supported", name)
		}
		methodName := field.Names[0].Name
		if isConstructorName(methodName) {
			continue
		}

		method := Method{
			Name:         methodName,
			FunctionName: snakeCase(methodName),
		}

		for _, param := range funcType.Params.List {
			paramType := typeString(param.Type)
			if paramType == "context.Context" {
				continue
			}
			if _, ok := supportedParamTypes[paramType]; !ok {
				return Model{}, fmt.Errorf("method %s.%s: unsupported parameter type %s",
					name, methodName, paramType)
			}
			for _, ident := range param.Names {
				method.Params = append(method.Params, Param{Name: ident.Name, Type: paramType})
			}
		}

		model.Methods = append(model.Methods, method)
	}

	if len(model.Methods) == 0 {
		return Model{}, fmt.Errorf("interface %s has no invocable methods", name)
	}
	return model, nil
}

// isConstructorName reports whether a method maps to the contract
// constructor and should not get a client method.
func isConstructorName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "new" || lower == "init" || lower == "constructor" || lower == "__constructor"
}

// typeString renders the source text of a type expression.
func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeString(t.Elt)
		}
		return "[...]" + typeString(t.Elt)
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// snakeCase converts a CamelCase method name to the snake_case contract
// function name.
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
