package dedupe

import (
	"jobvault/internal/store"
	"jobvault/internal/textutil"
)

// Clustering strategy names. Greedy is the default: a single pass where
// each unassigned job seeds a cluster and only the seed is compared
// against, so similarity is deliberately not treated as transitive. The
// union-find strategy computes the transitive closure instead and merges
// chains of pairwise-similar records into one cluster.
const (
	ClusterGreedy    = "greedy"
	ClusterUnionFind = "union-find"
)

type candidate struct {
	job     *store.Job
	company string
	title   string
}

func newCandidates(jobs []*store.Job) []candidate {
	candidates := make([]candidate, 0, len(jobs))
	for _, job := range jobs {
		c := candidate{
			job:     job,
			company: textutil.NormalizeCompany(job.Company),
			title:   textutil.NormalizeTitle(job.Title),
		}
		// A record with neither company nor title carries no signal and
		// would cluster with every other such record.
		if c.company == "" && c.title == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func (c candidate) matches(other candidate, companyThreshold, titleThreshold float64) bool {
	// Records belong to the same owner; cross-user merging would move
	// data between accounts.
	if c.job.UserID != other.job.UserID {
		return false
	}
	if c.company == other.company && c.title == other.title {
		return true
	}
	return textutil.Similarity(c.company, other.company) >= companyThreshold &&
		textutil.Similarity(c.title, other.title) >= titleThreshold
}

// clusterJobs groups duplicates per the configured strategy. Only groups
// with at least two members are returned, each ordered by scan order.
func clusterJobs(jobs []*store.Job, opts Options) [][]*store.Job {
	candidates := newCandidates(jobs)
	var groups [][]*store.Job
	if opts.Clustering == ClusterUnionFind {
		groups = unionFindClusters(candidates, opts)
	} else {
		groups = greedyClusters(candidates, opts)
	}
	duplicates := groups[:0]
	for _, group := range groups {
		if len(group) > 1 {
			duplicates = append(duplicates, group)
		}
	}
	return duplicates
}

func greedyClusters(candidates []candidate, opts Options) [][]*store.Job {
	assigned := make([]bool, len(candidates))
	var groups [][]*store.Job
	for i, seed := range candidates {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []*store.Job{seed.job}
		for j := i + 1; j < len(candidates); j++ {
			if assigned[j] {
				continue
			}
			if seed.matches(candidates[j], opts.CompanyThreshold, opts.TitleThreshold) {
				assigned[j] = true
				group = append(group, candidates[j].job)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func unionFindClusters(candidates []candidate, opts Options) [][]*store.Job {
	parent := make([]int, len(candidates))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra > rb {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].matches(candidates[j], opts.CompanyThreshold, opts.TitleThreshold) {
				union(i, j)
			}
		}
	}

	byRoot := map[int][]*store.Job{}
	var roots []int
	for i, c := range candidates {
		root := find(i)
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], c.job)
	}
	groups := make([][]*store.Job, 0, len(roots))
	for _, root := range roots {
		groups = append(groups, byRoot[root])
	}
	return groups
}
