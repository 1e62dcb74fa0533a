// Package templates renders the C# source of every generated artifact. The
// functions are pure: all names arrive resolved and no symbol lookups happen
// here.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	crdb "github.com/cockroachdb/errors"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/pkg/codegen"
)

// Visitor is one Accept overload of a class extension
type Visitor struct {
	Access   codegen.AccessModifier // accessibility of the Accept method
	Name     string                 // visitor interface name, optionally qualified
	Abstract bool                   // render a signature without a body
}

// VisitorInterfaceData is the data passed to the visitor-interface template
type VisitorInterfaceData struct {
	Access      string
	VisitorName string
	Doc         []string
	Receivers   []MethodData
}

// InterfaceExtensionData is the data passed to the interface-extension template
type InterfaceExtensionData struct {
	Access        string
	InterfaceName string
	AcceptDoc     []string
	Param         codegen.Param
}

// ClassExtensionData is the data passed to the class-extension template
type ClassExtensionData struct {
	Access    string
	Keyword   string // class or record
	ClassName string
	Visitors  []AcceptData
}

// MethodData is one documented single-parameter method
type MethodData struct {
	Doc   []string
	Param codegen.Param
}

// AcceptData is one Accept overload of a class extension
type AcceptData struct {
	Access   string
	Abstract bool
	Param    codegen.Param
}

// VisitorInterface renders the visitor interface for visitedInterfaceName
// with one Receive overload per class, in the order given.
func VisitorInterface(access codegen.AccessModifier, visitorName, visitedInterfaceName, namespaceName string, classNames []string) (string, error) {
	const op = "templates.VisitorInterface"
	keyword, err := access.Keyword()
	if err != nil {
		return "", err
	}
	if err := requireNames(op, "visitorName", visitorName, "visitedInterfaceName", visitedInterfaceName); err != nil {
		return "", err
	}

	doc, err := visitorDoc(visitorName, visitedInterfaceName)
	if err != nil {
		return "", err
	}
	data := VisitorInterfaceData{
		Access:      keyword,
		VisitorName: visitorName,
		Doc:         doc,
	}
	for i, class := range classNames {
		if class == "" {
			return "", invalidArgument(op, fmt.Sprintf("classNames[%d]", i))
		}
		m, err := receiveMethod(class)
		if err != nil {
			return "", err
		}
		data.Receivers = append(data.Receivers, m)
	}

	return render(VisitorInterfaceTemplate, data, namespaceName)
}

// VisitableInterfaceExtension renders the partial interface declaring
// Accept(visitorName visitor).
func VisitableInterfaceExtension(access codegen.AccessModifier, interfaceName, namespaceName, visitorName string) (string, error) {
	const op = "templates.VisitableInterfaceExtension"
	keyword, err := access.Keyword()
	if err != nil {
		return "", err
	}
	if err := requireNames(op, "interfaceName", interfaceName, "visitorName", visitorName); err != nil {
		return "", err
	}

	param, doc, err := acceptMethod(interfaceName, visitorName)
	if err != nil {
		return "", err
	}
	data := InterfaceExtensionData{
		Access:        keyword,
		InterfaceName: interfaceName,
		AcceptDoc:     doc,
		Param:         param,
	}
	return render(InterfaceExtensionTemplate, data, namespaceName)
}

// VisitableClassExtension renders the partial class with one Accept overload
// per visitor, in input order. Non-abstract overloads forward to
// visitor.Receive(this).
func VisitableClassExtension(access codegen.AccessModifier, className, namespaceName string, visitors []Visitor) (string, error) {
	return typeExtension("templates.VisitableClassExtension", "class", access, className, namespaceName, visitors)
}

// VisitableRecordExtension is VisitableClassExtension for a record. Every
// part of a partial type must repeat its keyword.
func VisitableRecordExtension(access codegen.AccessModifier, recordName, namespaceName string, visitors []Visitor) (string, error) {
	return typeExtension("templates.VisitableRecordExtension", "record", access, recordName, namespaceName, visitors)
}

func typeExtension(op, typeKeyword string, access codegen.AccessModifier, typeName, namespaceName string, visitors []Visitor) (string, error) {
	keyword, err := access.Keyword()
	if err != nil {
		return "", err
	}
	if err := requireNames(op, typeKeyword+"Name", typeName); err != nil {
		return "", err
	}

	data := ClassExtensionData{Access: keyword, Keyword: typeKeyword, ClassName: typeName}
	for i, v := range visitors {
		vk, err := v.Access.Keyword()
		if err != nil {
			return "", err
		}
		param, err := codegen.NewParam(visitorParam, v.Name)
		if err != nil {
			return "", invalidArgument(op, fmt.Sprintf("visitors[%d].Name", i))
		}
		data.Visitors = append(data.Visitors, AcceptData{Access: vk, Abstract: v.Abstract, Param: param})
	}
	return render(ClassExtensionTemplate, data, namespaceName)
}

// VisitableExtensionFileName returns the file name of the Accept extension
// of an interface or class
func VisitableExtensionFileName(name string) string {
	return name + ".Visitable.cs"
}

// VisitorInterfaceFileName returns the file name of a visitor interface
func VisitorInterfaceFileName(visitorName string) string {
	return visitorName + ".cs"
}

// render executes the named template and wraps the declaration in a
// compilation unit. The result uses \n line endings and ends with a newline.
func render(name string, data interface{}, namespaceName string) (string, error) {
	body, err := executeTemplate(name, DefaultTemplateRegistry.MustGet(name), data)
	if err != nil {
		return "", err
	}

	unit := codegen.NewSourceBuilder().WithSourceElement(codegen.Lines(codegen.SplitLines(body)))
	if namespaceName != "" {
		unit = unit.WithNamespace(namespaceName)
	}
	lines, err := unit.Compile()
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

func requireNames(op string, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return invalidArgument(op, pairs[i])
		}
	}
	return nil
}

func invalidArgument(op, arg string) error {
	return crdb.WithStack(&codegen.ArgumentError{Op: op, Arg: arg, Reason: "must not be empty"})
}
