package schedule

import (
	"strings"
	"testing"
	"time"
)

func wbs(id, name, parent string, root bool) *WbsNode {
	return &WbsNode{WbsID: id, Name: name, ParentWbsID: parent, IsProjectRoot: root}
}

func TestAssignWbsCodesRootOrdering(t *testing.T) {
	// Roots sort alphabetically, not by insertion order.
	nodes := []*WbsNode{
		wbs("z", "Zeta", "", true),
		wbs("a", "Alpha", "", true),
	}

	AssignWbsCodes(nodes)

	byName := map[string]*WbsNode{"Zeta": nodes[0], "Alpha": nodes[1]}
	if byName["Alpha"].WbsCode != "1.0" {
		t.Errorf("Alpha code = %q, want 1.0", byName["Alpha"].WbsCode)
	}
	if byName["Zeta"].WbsCode != "2.0" {
		t.Errorf("Zeta code = %q, want 2.0", byName["Zeta"].WbsCode)
	}
	if byName["Alpha"].SortOrder != 1 || byName["Zeta"].SortOrder != 2 {
		t.Errorf("sort orders = %d/%d, want 1/2", byName["Alpha"].SortOrder, byName["Zeta"].SortOrder)
	}
	if byName["Alpha"].Level != 0 || byName["Zeta"].Level != 0 {
		t.Error("roots must be level 0")
	}
}

func TestAssignWbsCodesChildren(t *testing.T) {
	root := wbs("r", "Root", "", true)
	b := wbs("b", "B", "r", false)
	a := wbs("a", "A", "r", false)
	grand := wbs("g", "Grandchild", "a", false)
	nodes := []*WbsNode{root, b, a, grand}

	AssignWbsCodes(nodes)

	// Parent "1.0" -> children replace the ".0" suffix.
	if a.WbsCode != "1.1" {
		t.Errorf("A code = %q, want 1.1 (alphabetical before B)", a.WbsCode)
	}
	if b.WbsCode != "1.2" {
		t.Errorf("B code = %q, want 1.2", b.WbsCode)
	}
	// Parent "1.1" -> deeper levels append.
	if grand.WbsCode != "1.1.1" {
		t.Errorf("grandchild code = %q, want 1.1.1", grand.WbsCode)
	}
	if a.Level != 1 || grand.Level != 2 {
		t.Errorf("levels = %d/%d, want 1/2", a.Level, grand.Level)
	}
}

func TestAssignWbsCodesCycleGuard(t *testing.T) {
	// a -> b -> a plus a legitimate root. Must terminate.
	root := wbs("r", "Root", "", true)
	a := wbs("a", "A", "b", false)
	b := wbs("b", "B", "a", false)

	AssignWbsCodes([]*WbsNode{root, a, b})

	if root.WbsCode != "1.0" {
		t.Errorf("root code = %q, want 1.0", root.WbsCode)
	}
	// The cycle nodes are unreachable from any root and stay uncoded.
	if a.WbsCode != "" || b.WbsCode != "" {
		t.Errorf("cycle nodes coded: %q %q", a.WbsCode, b.WbsCode)
	}
}

func TestAssignWbsCodesDeterministic(t *testing.T) {
	build := func() []*WbsNode {
		return []*WbsNode{
			wbs("r2", "Beta", "", true),
			wbs("r1", "Alpha", "", true),
			wbs("c2", "Child", "r1", false),
			wbs("c1", "Child", "r1", false), // duplicate name, tie-break by id
		}
	}

	first := build()
	AssignWbsCodes(first)
	second := build()
	AssignWbsCodes(second)

	for i := range first {
		if first[i].WbsCode != second[i].WbsCode {
			t.Errorf("node %s: codes differ across runs: %q vs %q",
				first[i].WbsID, first[i].WbsCode, second[i].WbsCode)
		}
	}
	// Duplicate names resolve by WbsID.
	if first[3].WbsCode != "1.1" || first[2].WbsCode != "1.2" {
		t.Errorf("tie-break codes = %q/%q, want c1=1.1 c2=1.2",
			first[3].WbsCode, first[2].WbsCode)
	}
}

func TestAssignActivityCodes(t *testing.T) {
	node := wbs("w", "Structure", "", true)
	node.WbsCode = "2.1"

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	acts := []*Activity{
		{TaskID: "t1", Name: "March start", WbsID: "w", EarlyStart: &d1},
		{TaskID: "t2", Name: "No date", WbsID: "w"},
		{TaskID: "t3", Name: "January start", WbsID: "w", EarlyStart: &d2},
	}

	AssignActivityCodes(acts, []*WbsNode{node})

	// Missing early start sorts earliest.
	want := map[string]string{"t2": "2.1.1", "t3": "2.1.2", "t1": "2.1.3"}
	for _, a := range acts {
		if a.ActivityCode != want[a.TaskID] {
			t.Errorf("%s code = %q, want %q", a.TaskID, a.ActivityCode, want[a.TaskID])
		}
		if a.WbsCode != "2.1" {
			t.Errorf("%s WbsCode = %q, want 2.1", a.TaskID, a.WbsCode)
		}
	}
}

func TestAssignActivityCodesUnresolvedWbs(t *testing.T) {
	uncoded := wbs("u", "Never Coded", "missing-parent", false)
	acts := []*Activity{
		{TaskID: "t1", Name: "Orphan", WbsID: "nowhere"},
		{TaskID: "t2", Name: "Under uncoded WBS", WbsID: "u"},
		{TaskID: "t3", Name: "Unassigned"},
	}

	AssignActivityCodes(acts, []*WbsNode{uncoded})

	for _, a := range acts {
		if a.ActivityCode != "" {
			t.Errorf("%s should have no code, got %q", a.TaskID, a.ActivityCode)
		}
	}
}

func TestBuildPaths(t *testing.T) {
	root := wbs("r", "Project", "", true)
	child := wbs("c", "Phase A", "r", false)
	acts := []*Activity{
		{TaskID: "t1", Name: "Mobilize", WbsID: "c"},
		{TaskID: "t9", Name: "Floating", WbsID: ""},
	}

	BuildHierarchy([]*WbsNode{root, child}, acts)

	if root.FullPath != "1.0 Project" {
		t.Errorf("root path = %q", root.FullPath)
	}
	if child.FullPath != "1.0 Project > 1.1 Phase A" {
		t.Errorf("child path = %q", child.FullPath)
	}

	if got := acts[0].HierarchyPath; got != "1.0 Project > 1.1 Phase A > 1.1.1 Mobilize" {
		t.Errorf("activity path = %q", got)
	}
	if !strings.HasPrefix(acts[1].HierarchyPath, "Unassigned > ") {
		t.Errorf("unassigned activity path = %q, want Unassigned prefix", acts[1].HierarchyPath)
	}
	// Without a code the label falls back to the task id.
	if acts[1].HierarchyPath != "Unassigned > t9 Floating" {
		t.Errorf("unassigned path = %q", acts[1].HierarchyPath)
	}
}

func TestBuildPathsCycleGuard(t *testing.T) {
	a := wbs("a", "A", "b", false)
	b := wbs("b", "B", "a", false)

	BuildPaths([]*WbsNode{a, b}, nil)

	// The walk halts at the repeat; a partial path is acceptable, hanging
	// is not.
	if a.FullPath == "" || b.FullPath == "" {
		t.Errorf("paths empty: a=%q b=%q", a.FullPath, b.FullPath)
	}
}

func TestBuildHierarchyIdempotent(t *testing.T) {
	build := func() ([]*WbsNode, []*Activity) {
		root := wbs("r", "Project", "", true)
		c1 := wbs("c1", "Civil", "r", false)
		c2 := wbs("c2", "Electrical", "r", false)
		d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		acts := []*Activity{
			{TaskID: "t1", Name: "Trench", WbsID: "c1", EarlyStart: &d},
			{TaskID: "t2", Name: "Backfill", WbsID: "c1"},
		}
		return []*WbsNode{root, c1, c2}, acts
	}

	n1, a1 := build()
	BuildHierarchy(n1, a1)
	// Re-run over already-built records.
	BuildHierarchy(n1, a1)

	n2, a2 := build()
	BuildHierarchy(n2, a2)

	for i := range n1 {
		if n1[i].WbsCode != n2[i].WbsCode || n1[i].FullPath != n2[i].FullPath {
			t.Errorf("node %s differs after rebuild: %q/%q vs %q/%q",
				n1[i].WbsID, n1[i].WbsCode, n1[i].FullPath, n2[i].WbsCode, n2[i].FullPath)
		}
	}
	for i := range a1 {
		if a1[i].ActivityCode != a2[i].ActivityCode || a1[i].HierarchyPath != a2[i].HierarchyPath {
			t.Errorf("activity %s differs after rebuild", a1[i].TaskID)
		}
	}
}
