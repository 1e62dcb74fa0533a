package models

// ArtifactKind identifies which template produced an artifact
type ArtifactKind int

const (
	ArtifactVisitorInterface ArtifactKind = iota
	ArtifactInterfaceExtension
	ArtifactClassExtension
)

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactVisitorInterface:
		return "visitor interface"
	case ArtifactInterfaceExtension:
		return "interface extension"
	case ArtifactClassExtension:
		return "class extension"
	default:
		return "unknown"
	}
}

// Artifact represents one generated C# source file
type Artifact struct {
	FileName  string       // file name relative to the output directory
	Content   string       // generated C# source
	Kind      ArtifactKind // template that produced the artifact
	Symbol    string       // qualified name of the interface or class it was generated for
	Namespace Namespace    // namespace of that symbol
}
