package fields

func renderer(k Kind) Display { return Display{Mode: DisplayRenderer, Kind: k} }

var hidden = Display{Mode: DisplayHidden}

// builtins is the curated table of well-known fields, in display order.
var builtins = []Descriptor{
	{ID: "issuetype", Name: "Issue Type", Display: renderer(KindName), Immutable: true},
	{ID: "status", Name: "Status", Display: renderer(KindName), Immutable: true},
	{ID: "resolution", Name: "Resolution", Display: renderer(KindName)},
	{ID: "priority", Name: "Priority", Display: renderer(KindPriority)},
	{ID: "project", Name: "Project", Display: renderer(KindKey), Verbose: true},
	{ID: "parent", Name: "Parent", Display: renderer(KindKey)},
	{ID: "assignee", Name: "Assignee", Display: renderer(KindUser)},
	{ID: "reporter", Name: "Reporter", Display: renderer(KindReporter)},
	{ID: "creator", Name: "Creator", Display: renderer(KindUser), Verbose: true},
	{ID: "created", Name: "Created", Display: renderer(KindCreated), Immutable: true},
	{ID: "updated", Name: "Updated", Display: hidden},
	{ID: "resolutiondate", Name: "Resolved", Display: renderer(KindDatetime)},
	{ID: "duedate", Name: "Due Date", Display: renderer(KindDate)},
	{ID: "components", Name: "Component/s", Display: renderer(KindNameList)},
	{ID: "versions", Name: "Affects Version/s", Display: renderer(KindNameList)},
	{ID: "fixVersions", Name: "Fix Version/s", Display: renderer(KindNameList)},
	{ID: "labels", Name: "Labels", Display: renderer(KindArray)},
	{ID: "security", Name: "Security Level", Display: renderer(KindName)},
	{ID: "environment", Name: "Environment", Display: renderer(KindString), Verbose: true},
	{ID: "votes", Name: "Votes", Display: renderer(KindVotes), Verbose: true},
	{ID: "watches", Name: "Watchers", Display: renderer(KindWatches), Verbose: true},
	{ID: "workratio", Name: "Work Ratio", Display: renderer(KindWorkRatio)},
}

// quietFields are bookkeeping built-ins that are suppressed unless an
// override turns them back on.
var quietFields = []string{
	"lastViewed",
	"statuscategorychangedate",
	"statusCategory",
	"progress",
	"aggregateprogress",
	"timetracking",
	"timeestimate",
	"timespent",
	"timeoriginalestimate",
	"aggregatetimeestimate",
	"aggregatetimespent",
	"aggregatetimeoriginalestimate",
	"worklog",
	"thumbnail",
}

// neverRender fields have dedicated display logic elsewhere and are never
// part of the generic field listing.
var neverRender = map[string]bool{
	"summary":     true,
	"description": true,
	"comment":     true,
	"attachment":  true,
	"issuelinks":  true,
	"subtasks":    true,
}

// IsDedicated reports whether a field is displayed by dedicated logic and is
// therefore excluded from the registry.
func IsDedicated(id string) bool { return neverRender[id] }

func builtinTable() []Descriptor {
	out := make([]Descriptor, 0, len(builtins)+len(quietFields))
	out = append(out, builtins...)
	for _, id := range quietFields {
		out = append(out, Descriptor{ID: id, Name: id, Display: hidden})
	}
	return out
}
