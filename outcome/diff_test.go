package outcome

import (
	"reflect"
	"testing"
)

func TestCompare_NilInputs(t *testing.T) {
	tests := []struct {
		name string
		old  *Outcome
		new  *Outcome
	}{
		{"both nil", nil, nil},
		{"old nil", nil, &Outcome{}},
		{"new nil", &Outcome{}, nil},
		{"both empty", &Outcome{}, &Outcome{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := Compare(tt.old, tt.new)
			if diff == nil {
				t.Fatal("Compare returned nil")
			}
			if !diff.IsEmpty() {
				t.Errorf("expected empty diff, got %+v", diff)
			}
		})
	}
}

func TestCompare_Identical(t *testing.T) {
	diff := Compare(createTestOutcome(), createTestOutcome())
	if !diff.IsEmpty() {
		t.Errorf("expected empty diff for identical outcomes, got %+v", diff)
	}
	if diff.TotalChanges() != 0 {
		t.Errorf("TotalChanges() = %d, want 0", diff.TotalChanges())
	}
}

func TestCompare_Changes(t *testing.T) {
	old := &Outcome{
		Modules: map[string]string{
			"org:a": "org:a:1.0",
			"org:b": "org:b:2.0",
			"org:c": "org:c:1.0",
			"org:d": "org:d:1.0",
		},
		Capabilities: map[string]string{
			"cap:x": "org:p:1.0",
		},
	}
	new := &Outcome{
		Modules: map[string]string{
			"org:a": "org:a:1.1",
			"org:b": "org:b:1.5",
			"org:d": "org:e:1.0",
			"org:f": "org:f:1.0",
		},
		Capabilities: map[string]string{
			"cap:x": "org:q:1.0",
		},
	}

	diff := Compare(old, new)

	if want := []Change{{Subject: "org:f", Component: "org:f:1.0"}}; !reflect.DeepEqual(diff.Added, want) {
		t.Errorf("Added = %+v, want %+v", diff.Added, want)
	}
	if want := []Change{{Subject: "org:c", Component: "org:c:1.0"}}; !reflect.DeepEqual(diff.Removed, want) {
		t.Errorf("Removed = %+v, want %+v", diff.Removed, want)
	}
	if want := []Upgrade{{Subject: "org:a", Old: "org:a:1.0", New: "org:a:1.1"}}; !reflect.DeepEqual(diff.Upgraded, want) {
		t.Errorf("Upgraded = %+v, want %+v", diff.Upgraded, want)
	}
	if want := []Upgrade{{Subject: "org:b", Old: "org:b:2.0", New: "org:b:1.5"}}; !reflect.DeepEqual(diff.Downgraded, want) {
		t.Errorf("Downgraded = %+v, want %+v", diff.Downgraded, want)
	}
	wantSwitched := []Upgrade{
		{Subject: "cap:x", Old: "org:p:1.0", New: "org:q:1.0"},
		{Subject: "org:d", Old: "org:d:1.0", New: "org:e:1.0"},
	}
	if !reflect.DeepEqual(diff.Switched, wantSwitched) {
		t.Errorf("Switched = %+v, want %+v", diff.Switched, wantSwitched)
	}
	if diff.TotalChanges() != 6 {
		t.Errorf("TotalChanges() = %d, want 6", diff.TotalChanges())
	}
}
