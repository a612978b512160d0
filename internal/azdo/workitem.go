// Package azdo talks to the Azure DevOps work item REST API and models the
// subset of a work item the UI cares about.
package azdo

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the well-known work item types.
type TypeKind int

const (
	TypeOther TypeKind = iota
	TypeBug
	TypeProductBacklogItem
	TypeUserStory
	TypeTask
	TypeFeature
	TypeEpic
)

// WorkItemType is a work item type with a catch-all for process-specific
// types; Name keeps the raw server value for display of unrecognized kinds.
type WorkItemType struct {
	Kind TypeKind
	Name string
}

// ParseType maps a server type name onto a WorkItemType.
func ParseType(s string) WorkItemType {
	switch strings.ToLower(s) {
	case "bug":
		return WorkItemType{Kind: TypeBug, Name: "Bug"}
	case "product backlog item":
		return WorkItemType{Kind: TypeProductBacklogItem, Name: "Product Backlog Item"}
	case "user story":
		return WorkItemType{Kind: TypeUserStory, Name: "User Story"}
	case "task":
		return WorkItemType{Kind: TypeTask, Name: "Task"}
	case "feature":
		return WorkItemType{Kind: TypeFeature, Name: "Feature"}
	case "epic":
		return WorkItemType{Kind: TypeEpic, Name: "Epic"}
	default:
		return WorkItemType{Kind: TypeOther, Name: s}
	}
}

func (t WorkItemType) String() string { return t.Name }

// Icon returns the glyph shown next to the type name.
func (t WorkItemType) Icon() string {
	switch t.Kind {
	case TypeBug:
		return "🐞"
	case TypeProductBacklogItem:
		return "📘"
	case TypeUserStory:
		return "📖"
	case TypeTask:
		return "📒"
	case TypeFeature:
		return "🏆"
	case TypeEpic:
		return "👑"
	default:
		return "📄"
	}
}

// StateKind enumerates the well-known workflow states.
type StateKind int

const (
	StateOther StateKind = iota
	StateNew
	StateApproved
	StateCommitted
	StateActive
	StateResolved
	StateClosed
	StateRemoved
	StateDone
)

// WorkItemState is a workflow state with a catch-all for custom states.
type WorkItemState struct {
	Kind StateKind
	Name string
}

// ParseState maps a server state name onto a WorkItemState.
func ParseState(s string) WorkItemState {
	switch strings.ToLower(s) {
	case "new":
		return WorkItemState{Kind: StateNew, Name: "New"}
	case "approved":
		return WorkItemState{Kind: StateApproved, Name: "Approved"}
	case "committed":
		return WorkItemState{Kind: StateCommitted, Name: "Committed"}
	case "active":
		return WorkItemState{Kind: StateActive, Name: "Active"}
	case "resolved":
		return WorkItemState{Kind: StateResolved, Name: "Resolved"}
	case "closed":
		return WorkItemState{Kind: StateClosed, Name: "Closed"}
	case "removed":
		return WorkItemState{Kind: StateRemoved, Name: "Removed"}
	case "done":
		return WorkItemState{Kind: StateDone, Name: "Done"}
	default:
		return WorkItemState{Kind: StateOther, Name: s}
	}
}

func (s WorkItemState) String() string { return s.Name }

// Icon returns the glyph shown next to the state name.
func (s WorkItemState) Icon() string {
	switch s.Kind {
	case StateNew:
		return "🆕"
	case StateApproved:
		return "👍"
	case StateCommitted:
		return "🎯"
	case StateActive:
		return "🔵"
	case StateResolved:
		return "☑️"
	case StateClosed:
		return "✔️"
	case StateRemoved:
		return "🗑️"
	case StateDone:
		return "✅"
	default:
		return "⚪"
	}
}

// RichTextField is a named HTML field (Description, Repro Steps, ...).
type RichTextField struct {
	Name  string
	Value string
}

// WorkItem is an immutable snapshot of a fetched work item.
type WorkItem struct {
	ID         int
	Title      string
	Type       WorkItemType
	State      WorkItemState
	AssignedTo string // display name, empty when unassigned
	URL        string // canonical browser URL, empty when unknown
	Tags       []string
	RichText   []RichTextField
}

// richTextFields lists the known rich text fields in display order.
var richTextFields = []struct {
	field string
	name  string
}{
	{"System.Description", "Description"},
	{"Microsoft.VSTS.Common.AcceptanceCriteria", "Acceptance Criteria"},
	{"Microsoft.VSTS.TCM.ReproSteps", "Repro Steps"},
	{"Microsoft.VSTS.TCM.SystemInfo", "System Info"},
	{"Microsoft.VSTS.Common.Resolution", "Resolution"},
	{"Microsoft.VSTS.Build.FoundIn", "Found In"},
	{"Microsoft.VSTS.Build.IntegrationBuild", "Integration Build"},
}

// workItemFromResponse builds a WorkItem from a decoded API payload.
func workItemFromResponse(id int, fields map[string]any, url string) (*WorkItem, error) {
	title, ok := fields["System.Title"].(string)
	if !ok {
		return nil, fmt.Errorf("work item %d: missing System.Title field", id)
	}
	typeName, ok := fields["System.WorkItemType"].(string)
	if !ok {
		return nil, fmt.Errorf("work item %d: missing System.WorkItemType field", id)
	}
	stateName, ok := fields["System.State"].(string)
	if !ok {
		return nil, fmt.Errorf("work item %d: missing System.State field", id)
	}

	wi := &WorkItem{
		ID:    id,
		Title: title,
		Type:  ParseType(typeName),
		State: ParseState(stateName),
		URL:   url,
	}

	if assigned, ok := fields["System.AssignedTo"].(map[string]any); ok {
		if name, ok := assigned["displayName"].(string); ok {
			wi.AssignedTo = name
		}
	}

	// Tags arrive as a single semicolon-separated string.
	if raw, ok := fields["System.Tags"].(string); ok {
		for _, tag := range strings.Split(raw, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				wi.Tags = append(wi.Tags, tag)
			}
		}
	}

	for _, rt := range richTextFields {
		if value, ok := fields[rt.field].(string); ok && strings.TrimSpace(value) != "" {
			wi.RichText = append(wi.RichText, RichTextField{Name: rt.name, Value: value})
		}
	}

	return wi, nil
}
