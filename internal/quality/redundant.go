package quality

import "github.com/alexanderramin/xerkit/internal/domain"

// RedundantLogic finds direct predecessor links of task that are already
// implied by a longer chain of links. Each returned chain lists the links
// from the redundant predecessor to task, so chain[0].Task is also a direct
// predecessor of task. Level of effort predecessors are not followed.
func RedundantLogic(task *domain.Task) [][]domain.TaskLink {
	var chains [][]domain.TaskLink
	for _, pred := range task.Predecessors {
		seen := map[*domain.Task]bool{task: true}
		chains = append(chains, searchChains(task, []domain.TaskLink{pred}, seen)...)
	}
	return chains
}

func searchChains(epoch *domain.Task, path []domain.TaskLink, seen map[*domain.Task]bool) [][]domain.TaskLink {
	var chains [][]domain.TaskLink
	last := path[len(path)-1]
	for _, pred := range path[0].Task.Predecessors {
		if pred.Task.Type.IsLOE() {
			continue
		}
		chain := append([]domain.TaskLink{pred}, path...)
		if isDirectPredecessor(epoch, pred) && compatible(chain) && pred.Link.Drives() == last.Link.Drives() {
			chains = append(chains, chain)
		}
		if seen[pred.Task] {
			continue
		}
		seen[pred.Task] = true
		chains = append(chains, searchChains(epoch, chain, seen)...)
	}
	return chains
}

func isDirectPredecessor(task *domain.Task, link domain.TaskLink) bool {
	for _, p := range task.Predecessors {
		if p.Task == link.Task && p.Link == link.Link {
			return true
		}
	}
	return false
}

// compatible reports whether every link in the chain shares its start or
// its finish side with the first link.
func compatible(chain []domain.TaskLink) bool {
	first := chain[0].Link
	for _, l := range chain {
		if l.Link[0] != first[0] && l.Link[1] != first[1] {
			return false
		}
	}
	return true
}
