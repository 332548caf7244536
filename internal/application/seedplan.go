package application

// seedPlan is the pure half of fixture provisioning: given the identifiers
// that already exist (ascending) and a target count, it fixes how many rows
// must be created and which ordinal each new row gets. Executing the plan is
// left to the caller so idempotence can be tested without a store.
type seedPlan struct {
	existing []int64
	deficit  int
}

func planSeed(existing []int64, target int) seedPlan {
	d := target - len(existing)
	if d < 0 {
		d = 0
	}
	return seedPlan{existing: existing, deficit: d}
}

// ordinal returns the 1-based label index of the i-th row to create, so
// generated names continue the existing sequence.
func (p seedPlan) ordinal(i int) int {
	return len(p.existing) + i + 1
}

func firstN(ids []int64, n int) []int64 {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
