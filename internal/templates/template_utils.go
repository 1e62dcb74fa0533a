package templates

import "github.com/toyz/visitgen/pkg/codegen"

const (
	elementParam = "element"
	visitorParam = "visitor"
)

// visitorDoc documents the visitor interface itself
func visitorDoc(visitorName, interfaceName string) ([]string, error) {
	return codegen.NewDocBuilder().
		WithSummaryLines(
			`<see cref="`+visitorName+`"/> defines the visitor interface to visit the`,
			`implementations of the <see cref="`+interfaceName+`"/>.`,
		).
		Compile()
}

// receiveMethod builds the Receive overload for one implementing class
func receiveMethod(className string) (MethodData, error) {
	param, err := codegen.NewParam(elementParam, className)
	if err != nil {
		return MethodData{}, err
	}
	param = param.WithDoc("The element to act upon.")

	doc, err := codegen.NewDocBuilder().
		WithSummary(`Receive the specified <paramref name="` + elementParam + `"/>.`).
		WithParamDocs(param).
		Compile()
	if err != nil {
		return MethodData{}, err
	}
	return MethodData{Doc: doc, Param: param}, nil
}

// acceptMethod builds the Accept signature declared on a visitable interface
func acceptMethod(interfaceName, visitorName string) (codegen.Param, []string, error) {
	param, err := codegen.NewParam(visitorParam, visitorName)
	if err != nil {
		return codegen.Param{}, nil, err
	}
	param = param.WithDoc(`<param name="visitor">The visitor which visits this <see cref="` + interfaceName + `"/>.</param>`)

	doc, err := codegen.NewDocBuilder().
		WithSummary(`Accept the specified <paramref name="` + visitorParam + `"/>.`).
		WithParamDocs(param).
		Compile()
	if err != nil {
		return codegen.Param{}, nil, err
	}
	return param, doc, nil
}
