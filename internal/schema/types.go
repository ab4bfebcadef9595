package schema

// Type is a closed classification of tracker schema type strings. Strings
// not listed here classify as TypeUnknown and get lenient handling.
type Type int

// Schema types understood by the renderer and transmogrifier.
const (
	TypeUnknown Type = iota
	TypeAny
	TypeString
	TypeNumber
	TypeDate
	TypeDatetime
	TypeArray
	TypeUser
	TypeGroup
	TypeOption
	TypeOptionWithChild
	TypePriority
	TypeStatus
	TypeResolution
	TypeIssueType
	TypeProject
	TypeVersion
	TypeComponent
	TypeSecurityLevel
	TypeIssueLink
	TypeVotes
	TypeWatches
)

var typeNames = map[string]Type{
	"any":               TypeAny,
	"string":            TypeString,
	"number":            TypeNumber,
	"date":              TypeDate,
	"datetime":          TypeDatetime,
	"array":             TypeArray,
	"user":              TypeUser,
	"group":             TypeGroup,
	"option":            TypeOption,
	"option-with-child": TypeOptionWithChild,
	"priority":          TypePriority,
	"status":            TypeStatus,
	"resolution":        TypeResolution,
	"issuetype":         TypeIssueType,
	"project":           TypeProject,
	"version":           TypeVersion,
	"component":         TypeComponent,
	"securitylevel":     TypeSecurityLevel,
	"issuelink":         TypeIssueLink,
	"votes":             TypeVotes,
	"watches":           TypeWatches,
}

// ParseType classifies a schema type string.
func ParseType(s string) Type {
	if t, ok := typeNames[s]; ok {
		return t
	}
	return TypeUnknown
}

// String returns the wire name of the type.
func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

// Custom classifies vendor-specific custom field types that need bespoke
// parsing or rendering.
type Custom int

// Recognized custom field plugins.
const (
	CustomNone Custom = iota
	CustomSprint
	CustomEpicLink
	CustomParentLink
)

// Vendor type strings for the custom fields handled specially.
const (
	SprintType     = "com.pyxis.greenhopper.jira:gh-sprint"
	EpicLinkType   = "com.pyxis.greenhopper.jira:gh-epic-link"
	ParentLinkType = "com.atlassian.jpo:jpo-custom-field-parent"
)

// ParseCustom classifies a schema custom type string.
func ParseCustom(s string) Custom {
	switch s {
	case SprintType:
		return CustomSprint
	case EpicLinkType:
		return CustomEpicLink
	case ParentLinkType:
		return CustomParentLink
	default:
		return CustomNone
	}
}
