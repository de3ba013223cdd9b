package loader

import (
	"log"
	"sort"

	"github.com/mogaika/gltfscene/scene"
)

// labeledNode is a node candidate entering hierarchy resolution: the built
// node, its registry label and the child indices from the source document.
type labeledNode struct {
	Label    string
	Node     *scene.Node
	Children []int
}

type resolvedNode struct {
	Index int
	Label string
	Node  *scene.Node
}

// resolveNodeHierarchy peels leaves off the child graph until every node
// has its full subtree attached. Each node keeps at most one parent: a later
// parent claim overwrites an earlier one. Nodes stuck in cycles never become
// childless and are dropped wholesale. Results come back ordered by source
// index.
func resolveNodeHierarchy(nodes []labeledNode, docName string) []resolvedNode {
	var warnedInvalidChild bool
	warnInvalidChild := func() {
		if !warnedInvalidChild {
			log.Printf("Unlikely behavior: in gltf file %s, a node has more than one parent or references a missing child", docName)
			warnedInvalidChild = true
		}
	}

	parents := make([]int, len(nodes))
	for i := range parents {
		parents[i] = -1
	}

	// pending[i] is the set of child indices node i still waits on. A
	// reference to a missing node stays in the set forever, so the
	// referencing node never resolves and is excised below.
	pending := make([]map[int]bool, len(nodes))
	for i, node := range nodes {
		pending[i] = make(map[int]bool, len(node.Children))
		for _, child := range node.Children {
			if child >= 0 && child < len(nodes) {
				if parents[child] != -1 {
					warnInvalidChild()
				}
				parents[child] = i
			} else {
				warnInvalidChild()
			}
			pending[i][child] = true
		}
	}

	childless := make([]int, 0, len(nodes))
	for i := range nodes {
		if len(pending[i]) == 0 {
			childless = append(childless, i)
		}
	}

	resolved := make(map[int]*scene.Node, len(nodes))
	for len(childless) > 0 {
		idx := childless[0]
		childless = childless[1:]
		resolved[idx] = nodes[idx].Node

		parent := parents[idx]
		if parent == -1 {
			continue
		}
		// The parent gets its own copy of the subtree.
		nodes[parent].Node.Children = append(nodes[parent].Node.Children, nodes[idx].Node.Clone())
		delete(pending[parent], idx)
		if len(pending[parent]) == 0 {
			childless = append(childless, parent)
		}
	}

	if len(resolved) != len(nodes) {
		log.Printf("Node hierarchy of gltf file %s contains cycles, the node hierarchy must be a tree", docName)
	}

	out := make([]resolvedNode, 0, len(resolved))
	for idx, node := range resolved {
		out = append(out, resolvedNode{Index: idx, Label: nodes[idx].Label, Node: node})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
