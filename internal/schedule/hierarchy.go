package schedule

// hierarchy.go assigns dotted hierarchy codes and breadcrumb paths.
//
// WBS codes: roots get "1.0", "2.0", ... in name order; a child of "2.0" is
// "2.1", a child of "2.1" is "2.1.1". Activity codes extend the owning WBS
// code by the activity's rank within it. All orderings are total (name or
// date first, identifier as the final tie-break), so a rebuild over
// unchanged input reproduces identical codes.
//
// Parent links come from the source file and may be malformed; every walk
// carries a visited set and the descent is depth-limited.

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxWbsDepth bounds the code-assignment descent on malformed parent chains.
const maxWbsDepth = 100

const unassignedPrefix = "Unassigned > "

// BuildHierarchy populates codes, levels, sort orders, and breadcrumb paths
// on the given records in place. Safe to re-run; output depends only on the
// input names, dates, identifiers, and parent links.
func BuildHierarchy(nodes []*WbsNode, acts []*Activity) {
	AssignWbsCodes(nodes)
	AssignActivityCodes(acts, nodes)
	BuildPaths(nodes, acts)
}

// AssignWbsCodes assigns dotted codes, levels, and sibling ranks to every
// node reachable from a root. Roots are nodes flagged as project roots or
// with no parent; they are ordered by name (empty first), then WbsID.
func AssignWbsCodes(nodes []*WbsNode) {
	children := make(map[string][]*WbsNode, len(nodes))
	var roots []*WbsNode
	for _, n := range nodes {
		if n.IsProjectRoot || n.ParentWbsID == "" {
			roots = append(roots, n)
			continue
		}
		children[n.ParentWbsID] = append(children[n.ParentWbsID], n)
	}
	sortByName(roots)

	visited := make(map[string]bool, len(nodes))
	for i, root := range roots {
		root.WbsCode = strconv.Itoa(i+1) + ".0"
		root.SortOrder = i + 1
		root.Level = 0
		visited[root.WbsID] = true
		assignChildCodes(root, children, visited, maxWbsDepth)
	}
}

// assignChildCodes recursively codes the children of parent. A parent code
// ending in ".0" is a root code: its ".0" is replaced by the child rank.
// Deeper codes append the rank.
func assignChildCodes(parent *WbsNode, children map[string][]*WbsNode, visited map[string]bool, depth int) {
	if depth <= 0 {
		return
	}

	kids := children[parent.WbsID]
	sortByName(kids)

	rank := 0
	for _, child := range kids {
		if visited[child.WbsID] {
			continue
		}
		visited[child.WbsID] = true
		rank++

		if base, ok := strings.CutSuffix(parent.WbsCode, ".0"); ok {
			child.WbsCode = base + "." + strconv.Itoa(rank)
		} else {
			child.WbsCode = parent.WbsCode + "." + strconv.Itoa(rank)
		}
		child.SortOrder = rank
		child.Level = parent.Level + 1

		assignChildCodes(child, children, visited, depth-1)
	}
}

// sortByName orders siblings by raw name ascending (case-sensitive, empty
// first), breaking ties by WbsID so codes stay deterministic when names
// repeat.
func sortByName(nodes []*WbsNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].WbsID < nodes[j].WbsID
	})
}

// AssignActivityCodes groups activities by owning WBS and, where that WBS
// has a code, assigns each activity the WBS code extended by its rank.
// Ordering within a group is early start ascending with a missing date
// sorting earliest, then TaskID. Activities under an uncoded or unknown WBS
// receive no code.
func AssignActivityCodes(acts []*Activity, nodes []*WbsNode) {
	codeByWbs := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.WbsCode != "" {
			codeByWbs[n.WbsID] = n.WbsCode
		}
	}

	byWbs := make(map[string][]*Activity)
	for _, a := range acts {
		byWbs[a.WbsID] = append(byWbs[a.WbsID], a)
	}

	for wbsID, group := range byWbs {
		wbsCode := codeByWbs[wbsID]
		if wbsCode == "" {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if c := compareEarlyStart(group[i].EarlyStart, group[j].EarlyStart); c != 0 {
				return c < 0
			}
			return group[i].TaskID < group[j].TaskID
		})

		for i, a := range group {
			a.ActivityCode = wbsCode + "." + strconv.Itoa(i+1)
			a.WbsCode = wbsCode
			a.SortOrder = i + 1
		}
	}
}

// compareEarlyStart orders dates ascending with nil first. The source
// system pins missing dates to the epoch floor, so an undated activity
// sorts ahead of every dated one.
func compareEarlyStart(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// BuildPaths writes breadcrumb paths onto every node and activity. A node's
// FullPath walks its ancestry root-to-self; the walk stops (leaving a
// partial path) the moment a parent id repeats. An activity's path is its
// owning WBS path plus its own label; activities with no resolvable WBS get
// the "Unassigned > " prefix instead.
func BuildPaths(nodes []*WbsNode, acts []*Activity) {
	byID := make(map[string]*WbsNode, len(nodes))
	for _, n := range nodes {
		byID[n.WbsID] = n
	}

	for _, n := range nodes {
		n.FullPath = wbsPath(n.WbsID, byID)
	}

	for _, a := range acts {
		label := a.ActivityCode
		if label == "" {
			label = a.TaskID
		}
		if a.WbsID != "" && byID[a.WbsID] != nil {
			a.HierarchyPath = fmt.Sprintf("%s > %s %s", wbsPath(a.WbsID, byID), label, a.Name)
		} else {
			a.HierarchyPath = fmt.Sprintf("%s%s %s", unassignedPrefix, label, a.Name)
		}
	}
}

// wbsPath walks parent links from the given node to its root and joins the
// labels root-first. Each label is "{code} {name}" when a code exists.
func wbsPath(wbsID string, byID map[string]*WbsNode) string {
	var parts []string
	visited := make(map[string]bool)

	for id := wbsID; id != "" && byID[id] != nil; {
		if visited[id] {
			break
		}
		visited[id] = true

		n := byID[id]
		switch {
		case n.WbsCode != "":
			parts = append(parts, n.WbsCode+" "+n.Name)
		case n.Name != "":
			parts = append(parts, n.Name)
		default:
			parts = append(parts, "Unnamed WBS")
		}
		id = n.ParentWbsID
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
