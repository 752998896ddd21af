package shared

// NamedGroup is a child group as reported by a tree representation.
type NamedGroup[N any] struct {
	Name string
	Node N
}

type groupFrame[N any] struct {
	node N
	path string
}

// WalkGroups visits root and every nested group depth first, in the order
// children reports them. The root is visited with an empty group path and
// nested groups with their absolute path. The walk uses an explicit stack
// so deeply nested granules cannot exhaust the goroutine stack.
func WalkGroups[N any](root N, children func(N) ([]NamedGroup[N], error), visit func(node N, groupPath string) error) error {
	stack := []groupFrame[N]{{node: root}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := visit(frame.node, frame.path); err != nil {
			return err
		}
		groups, err := children(frame.node)
		if err != nil {
			return err
		}
		for idx := len(groups) - 1; idx >= 0; idx-- {
			stack = append(stack, groupFrame[N]{
				node: groups[idx].Node,
				path: JoinGroupPath(frame.path, groups[idx].Name),
			})
		}
	}
	return nil
}
