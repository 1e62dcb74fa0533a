package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerVisitorTemplates()
	registry.registerExtensionTemplates()

	return registry
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Template names
const (
	VisitorInterfaceTemplate   = "visitor-interface"
	InterfaceExtensionTemplate = "interface-extension"
	ClassExtensionTemplate     = "class-extension"
)

// registerVisitorTemplates registers the visitor interface template. Each
// template renders one type declaration; the namespace wrapper is added by
// the source builder.
func (tr *TemplateRegistry) registerVisitorTemplates() {
	tr.templates[VisitorInterfaceTemplate] = `{{range .Doc}}{{.}}
{{end}}{{.Access}} interface {{.VisitorName}}
{
{{range $i, $m := .Receivers}}{{if $i}}
{{end}}{{range $m.Doc}}    {{.}}
{{end}}    void Receive({{$m.Param.ParamString}});
{{end}}}`
}

// registerExtensionTemplates registers the partial extensions adding Accept.
// The class extension serves records too, so the keyword is data.
func (tr *TemplateRegistry) registerExtensionTemplates() {
	tr.templates[InterfaceExtensionTemplate] = `{{.Access}} partial interface {{.InterfaceName}}
{
{{range .AcceptDoc}}    {{.}}
{{end}}    void Accept({{.Param.ParamString}});
}`

	tr.templates[ClassExtensionTemplate] = `{{.Access}} partial {{.Keyword}} {{.ClassName}}
{
{{range $i, $v := .Visitors}}{{if $i}}
{{end}}{{if $v.Abstract}}    {{$v.Access}} abstract void Accept({{$v.Param.ParamString}});
{{else}}    {{$v.Access}} void Accept({{$v.Param.ParamString}}) =>
        {{$v.Param.Name}}.Receive(this);
{{end}}{{end}}}`
}

// Global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
