package segments

// IsTerminal reports, for each id, whether the segment has no child
// (its flow leaves the network rather than entering another segment).
// With no ids given, it reports for the whole network in position
// order.
func (s *Segments) IsTerminal(ids ...int) ([]bool, error) {
	positions, err := s.resolvePositions(ids)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(positions))
	for k, i := range positions {
		out[k] = s.child[i] < 0
	}
	return out, nil
}

// IsNested reports, for each id, whether the segment flows into another
// segment of the network (as opposed to being itself a terminal,
// outermost segment of its own drainage).
func (s *Segments) IsNested(ids ...int) ([]bool, error) {
	terminal, err := s.IsTerminal(ids...)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(terminal))
	for k, t := range terminal {
		out[k] = !t
	}
	return out, nil
}

// Orphans returns the ids of segments that are both headwaters (no
// parents) and terminal (no child): single-reach networks that never
// merge with anything else.
func (s *Segments) Orphans() []int {
	var out []int
	for i, id := range s.ids {
		if s.child[i] < 0 && len(s.parents[i]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Continuous reports whether ids, restricted to the child/parent edges
// with both endpoints in ids, form a single connected piece of the
// network rather than two or more disjoint fragments.
func (s *Segments) Continuous(ids []int) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	positions, err := s.resolvePositions(ids)
	if err != nil {
		return false, err
	}
	inSet := make(map[int]bool, len(positions))
	for _, i := range positions {
		inSet[i] = true
	}

	adj := make(map[int][]int, len(positions))
	for _, i := range positions {
		if c := s.child[i]; c >= 0 && inSet[c] {
			adj[i] = append(adj[i], c)
			adj[c] = append(adj[c], i)
		}
	}

	visited := make(map[int]bool, len(positions))
	var stack []int
	stack = append(stack, positions[0])
	visited[positions[0]] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range adj[cur] {
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}

	for _, i := range positions {
		if !visited[i] {
			return false, nil
		}
	}
	return true, nil
}

// resolvePositions maps ids to positions, or -- when ids is empty --
// returns every position in network order.
func (s *Segments) resolvePositions(ids []int) ([]int, error) {
	if len(ids) == 0 {
		positions := make([]int, len(s.ids))
		for i := range positions {
			positions[i] = i
		}
		return positions, nil
	}
	positions := make([]int, len(ids))
	for k, id := range ids {
		i, err := s.indexOf(id)
		if err != nil {
			return nil, err
		}
		positions[k] = i
	}
	return positions, nil
}
