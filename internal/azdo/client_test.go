package azdo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workItemPayload = `{
	"id": 123,
	"fields": {
		"System.Title": "Login button unresponsive",
		"System.WorkItemType": "Bug",
		"System.State": "Active",
		"System.AssignedTo": {"displayName": "Jamie Rivera"},
		"System.Tags": "ui; regression ;",
		"System.Description": "<p>Clicking <b>Login</b> does nothing.</p>",
		"Microsoft.VSTS.TCM.ReproSteps": "<ol><li>Open app</li><li>Click login</li></ol>",
		"Microsoft.VSTS.Common.AcceptanceCriteria": "   "
	},
	"_links": {"html": {"href": "https://dev.azure.com/org/project/_workitems/edit/123"}}
}`

func TestGetWorkItem(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(workItemPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret-pat")
	wi, err := client.GetWorkItem(context.Background(), 123)
	require.NoError(t, err)

	assert.Equal(t, "/_apis/wit/workitems/123", gotPath)
	assert.NotEmpty(t, gotAuth, "expected basic auth header")

	assert.Equal(t, 123, wi.ID)
	assert.Equal(t, "Login button unresponsive", wi.Title)
	assert.Equal(t, TypeBug, wi.Type.Kind)
	assert.Equal(t, StateActive, wi.State.Kind)
	assert.Equal(t, "Jamie Rivera", wi.AssignedTo)
	assert.Equal(t, "https://dev.azure.com/org/project/_workitems/edit/123", wi.URL)
	assert.Equal(t, []string{"ui", "regression"}, wi.Tags)

	// Blank rich text fields are skipped; order follows the known-field table.
	require.Len(t, wi.RichText, 2)
	assert.Equal(t, "Description", wi.RichText[0].Name)
	assert.Equal(t, "Repro Steps", wi.RichText[1].Name)
}

func TestGetWorkItemErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "pat").GetWorkItem(context.Background(), 7)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetWorkItemServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "pat").GetWorkItem(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_apis/projects", r.URL.Path)
		_, _ = w.Write([]byte(`{"count":0,"value":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL, "pat").Verify(context.Background()))
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeBug, ParseType("Bug").Kind)
	assert.Equal(t, TypeBug, ParseType("bug").Kind)
	assert.Equal(t, TypeProductBacklogItem, ParseType("Product Backlog Item").Kind)

	other := ParseType("Impediment")
	assert.Equal(t, TypeOther, other.Kind)
	assert.Equal(t, "Impediment", other.Name)
	assert.Equal(t, "📄", other.Icon())
}

func TestParseState(t *testing.T) {
	assert.Equal(t, StateDone, ParseState("Done").Kind)
	assert.Equal(t, StateResolved, ParseState("resolved").Kind)

	other := ParseState("In Review")
	assert.Equal(t, StateOther, other.Kind)
	assert.Equal(t, "In Review", other.Name)
}

func TestWorkItemFromResponseMissingFields(t *testing.T) {
	_, err := workItemFromResponse(1, map[string]any{"System.Title": "x"}, "")
	assert.Error(t, err)

	_, err = workItemFromResponse(1, map[string]any{}, "")
	assert.Error(t, err)
}
