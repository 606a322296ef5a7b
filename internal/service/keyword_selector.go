package service

import "math/rand"

// SelectKeywords returns exactly n keywords drawn from the pool. The pool is
// deduplicated and shuffled, then consumed as a stack, so the first
// min(n, unique) selections are pairwise distinct. Once the unique pool is
// exhausted, remaining slots are filled by uniform random draws with
// replacement. Returns an empty slice for an empty pool or n <= 0.
func SelectKeywords(pool []string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(pool))
	unique := make([]string, 0, len(pool))
	for _, kw := range pool {
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		unique = append(unique, kw)
	}
	if len(unique) == 0 {
		return []string{}
	}

	stack := make([]string, len(unique))
	copy(stack, unique)
	rand.Shuffle(len(stack), func(i, j int) {
		stack[i], stack[j] = stack[j], stack[i]
	})

	selected := make([]string, 0, n)
	for len(selected) < n && len(stack) > 0 {
		selected = append(selected, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	for len(selected) < n {
		selected = append(selected, unique[rand.Intn(len(unique))])
	}

	return selected
}
