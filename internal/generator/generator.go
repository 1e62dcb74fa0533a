// Package generator drives the templates over a collected symbol map and
// produces the artifacts of one compilation.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/internal/templates"
	"github.com/toyz/visitgen/pkg/codegen"
)

// CollisionPolicy decides what happens when two artifacts would be written
// to the same file name
type CollisionPolicy string

const (
	// CollisionQualify prefixes colliding file names with the namespace
	CollisionQualify CollisionPolicy = "qualify"
	// CollisionError fails generation with a NameCollision error
	CollisionError CollisionPolicy = "error"
)

// CollisionPolicies lists the accepted policy names
var CollisionPolicies = []CollisionPolicy{CollisionQualify, CollisionError}

// ParseCollisionPolicy parses a policy name. The empty string selects the
// default, CollisionQualify.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionQualify, nil
	case CollisionQualify, CollisionError:
		return p, nil
	default:
		return "", errors.ConfigurationError("collisions",
			fmt.Sprintf("unknown policy %q, expected %s or %s", s, CollisionQualify, CollisionError))
	}
}

// Options configures a Driver
type Options struct {
	Collisions CollisionPolicy
}

// Driver implements the CodeGenerator interface
type Driver struct {
	opts Options
}

var _ CodeGenerator = (*Driver)(nil)

// NewDriver creates a new driver. A zero Options selects the defaults.
func NewDriver(opts Options) *Driver {
	if opts.Collisions == "" {
		opts.Collisions = CollisionQualify
	}
	return &Driver{opts: opts}
}

// planned is an artifact together with the file name it falls back to when
// its simple file name collides.
type planned struct {
	models.Artifact
	qualifiedFileName string
}

// Generate emits, for every visitable interface, its visitor interface and
// its interface extension, then one class extension per visitable class.
// Artifacts are ordered by kind, then by qualified symbol name.
func (d *Driver) Generate(symbols *models.SymbolMap) ([]models.Artifact, error) {
	if symbols == nil {
		return nil, errors.New(errors.GenerationErrorCode, "symbol map cannot be nil")
	}

	var plan []planned
	for _, iface := range symbols.Interfaces() {
		artifacts, err := d.interfaceArtifacts(iface)
		if err != nil {
			return nil, err
		}
		plan = append(plan, artifacts...)
	}
	for _, class := range symbols.Classes() {
		artifact, err := d.classArtifact(symbols, class)
		if err != nil {
			return nil, err
		}
		plan = append(plan, artifact)
	}

	if err := d.resolveCollisions(plan); err != nil {
		return nil, err
	}

	out := make([]models.Artifact, len(plan))
	for i, p := range plan {
		out[i] = p.Artifact
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

func (d *Driver) interfaceArtifacts(iface models.VisitableInterface) ([]planned, error) {
	access := artifactAccess(iface.Access)
	ns := string(iface.Namespace)

	classNames := make([]string, len(iface.Implementations))
	for i, impl := range iface.Implementations {
		classNames[i] = impl.QualifiedName
	}

	visitor, err := templates.VisitorInterface(access, iface.VisitorName, iface.QualifiedName, ns, classNames)
	if err != nil {
		return nil, errors.WrapGenerateError(models.ArtifactVisitorInterface.String(), iface.QualifiedName, err).
			WithLocation(iface.Location)
	}

	extension, err := templates.VisitableInterfaceExtension(access, iface.Name, ns, iface.VisitorQualifiedName())
	if err != nil {
		return nil, errors.WrapGenerateError(models.ArtifactInterfaceExtension.String(), iface.QualifiedName, err).
			WithLocation(iface.Location)
	}

	return []planned{
		{
			Artifact: models.Artifact{
				FileName:  templates.VisitorInterfaceFileName(iface.VisitorName),
				Content:   visitor,
				Kind:      models.ArtifactVisitorInterface,
				Symbol:    iface.QualifiedName,
				Namespace: iface.Namespace,
			},
			qualifiedFileName: templates.VisitorInterfaceFileName(iface.VisitorQualifiedName()),
		},
		{
			Artifact: models.Artifact{
				FileName:  templates.VisitableExtensionFileName(iface.Name),
				Content:   extension,
				Kind:      models.ArtifactInterfaceExtension,
				Symbol:    iface.QualifiedName,
				Namespace: iface.Namespace,
			},
			qualifiedFileName: templates.VisitableExtensionFileName(iface.QualifiedName),
		},
	}, nil
}

// classArtifact renders the class extension. Every Accept overload is a
// public forwarding method so it implicitly implements the interface member.
func (d *Driver) classArtifact(symbols *models.SymbolMap, class models.VisitableClass) (planned, error) {
	visitors := make([]templates.Visitor, 0, len(class.Interfaces))
	for _, qn := range class.Interfaces {
		iface, ok := symbols.Interface(qn)
		if !ok {
			return planned{}, errors.Newf(errors.GenerationErrorCode,
				"class %s references unknown visitable interface %s", class.QualifiedName, qn).
				WithLocation(class.Location)
		}
		visitors = append(visitors, templates.Visitor{
			Access: codegen.Public,
			Name:   iface.VisitorQualifiedName(),
		})
	}

	extend := templates.VisitableClassExtension
	if class.Kind == models.KindRecord {
		extend = templates.VisitableRecordExtension
	}
	content, err := extend(artifactAccess(class.Access), class.Name, string(class.Namespace), visitors)
	if err != nil {
		return planned{}, errors.WrapGenerateError(models.ArtifactClassExtension.String(), class.QualifiedName, err).
			WithLocation(class.Location)
	}

	return planned{
		Artifact: models.Artifact{
			FileName:  templates.VisitableExtensionFileName(class.Name),
			Content:   content,
			Kind:      models.ArtifactClassExtension,
			Symbol:    class.QualifiedName,
			Namespace: class.Namespace,
		},
		qualifiedFileName: templates.VisitableExtensionFileName(class.QualifiedName),
	}, nil
}

// resolveCollisions applies the collision policy in place. File names are
// compared case-insensitively since generated sources often land on
// case-insensitive file systems.
func (d *Driver) resolveCollisions(plan []planned) error {
	collisions := collide(plan, func(p *planned) string { return p.FileName })
	if len(collisions) == 0 {
		return nil
	}

	if d.opts.Collisions == CollisionError {
		return collisionErrors(plan, collisions)
	}

	for _, group := range collisions {
		for _, i := range group {
			plan[i].FileName = plan[i].qualifiedFileName
		}
	}
	return collisionErrors(plan, collide(plan, func(p *planned) string { return p.FileName }))
}

// collide groups plan indices by file name and returns the groups with more
// than one member, ordered by first occurrence.
func collide(plan []planned, name func(*planned) string) [][]int {
	groups := make(map[string][]int)
	var order []string
	for i := range plan {
		key := strings.ToLower(name(&plan[i]))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	var out [][]int
	for _, key := range order {
		if len(groups[key]) > 1 {
			out = append(out, groups[key])
		}
	}
	return out
}

func collisionErrors(plan []planned, collisions [][]int) error {
	multi := errors.NewMultipleErrors()
	for _, group := range collisions {
		symbols := make([]string, len(group))
		for j, i := range group {
			symbols[j] = fmt.Sprintf("%s %s", plan[i].Kind, plan[i].Symbol)
		}
		multi.Add(errors.NameCollisionError(plan[group[0]].FileName, symbols))
	}
	return multi.ErrorOrNil()
}

// artifactAccess collapses declared accessibility to what a top-level
// generated type may use: public stays public, everything else is internal.
func artifactAccess(a codegen.AccessModifier) codegen.AccessModifier {
	if a == codegen.Public {
		return codegen.Public
	}
	return codegen.Internal
}
