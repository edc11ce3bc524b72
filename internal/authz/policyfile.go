package authz

import (
	"fmt"
	"os"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// policyDocument is the on-disk policy shape. Two versions exist in the
// wild: version 1 is the flat table from before areas were introduced
// (three roles, five modules, no role → area mapping), version 2 adds
// the quality role, the defectivos module and the areas table. Both
// normalize to the same in-memory Policy; v1 roles land in the AreaNone
// bucket unless the built-in side table knows them.
type policyDocument struct {
	Version int                      `yaml:"version" validate:"required,oneof=1 2"`
	Areas   map[string]string        `yaml:"areas"`
	Roles   map[string]policyRoleDoc `yaml:"roles" validate:"required,min=1,dive"`
}

type policyRoleDoc struct {
	Name    string              `yaml:"name" validate:"required"`
	Modules map[string][]string `yaml:"modules" validate:"required"`
}

// LoadPolicyFile reads and normalizes a policy document. Module, action
// and area keys are accent-folded and lowercased, so a hand-written
// "Artículos" resolves to the articulos module instead of silently
// denying everything.
func LoadPolicyFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("authz: read policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy document into a Policy.
func ParsePolicy(data []byte) (Policy, error) {
	var doc policyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Policy{}, fmt.Errorf("authz: decode policy: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return Policy{}, fmt.Errorf("authz: invalid policy: %w", err)
	}

	policy := Policy{
		Matrix: make(Matrix, len(doc.Roles)),
		Names:  make(map[Role]string, len(doc.Roles)),
		Areas:  make(map[Role]Area, len(doc.Roles)),
	}

	for rawID, roleDoc := range doc.Roles {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("authz: role id %q is not numeric", rawID)
		}
		role := Role(id)
		policy.Names[role] = roleDoc.Name

		grants := make(ModuleGrants, len(roleDoc.Modules))
		for rawModule, actions := range roleDoc.Modules {
			module := Module(foldKey(rawModule))
			actionGrants := make(ActionGrants, len(actions))
			for _, rawAction := range actions {
				actionGrants[Action(foldKey(rawAction))] = true
			}
			grants[module] = actionGrants
		}
		policy.Matrix[role] = grants

		policy.Areas[role] = resolveArea(doc, rawID, role)
	}

	return policy, nil
}

func resolveArea(doc policyDocument, rawID string, role Role) Area {
	if doc.Version >= 2 {
		if raw, ok := doc.Areas[rawID]; ok {
			return canonicalArea(raw)
		}
		return AreaNone
	}
	// v1 documents predate areas; fall back to the built-in side table
	// so legacy policies still group correctly.
	return RoleArea(role)
}

func canonicalArea(raw string) Area {
	switch foldKey(raw) {
	case "ti":
		return AreaTI
	case "planeacion":
		return AreaPlaneacion
	case "calidad":
		return AreaCalidad
	default:
		return AreaNone
	}
}

var keyFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey lowercases a key and strips diacritics.
func foldKey(raw string) string {
	folded, _, err := transform.String(keyFolder, raw)
	if err != nil {
		folded = raw
	}
	out := make([]rune, 0, len(folded))
	for _, r := range folded {
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
