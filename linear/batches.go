package linear

// Batches splits perm into consecutive chunks of batchSize indices, in order.
// The last chunk holds the remainder when len(perm) isn't a multiple of
// batchSize. The chunks share perm's backing array.
func Batches(perm []int, batchSize int) [][]int {
	batches := make([][]int, 0, (len(perm)+batchSize-1)/batchSize)
	for start := 0; start < len(perm); start += batchSize {
		end := start + batchSize
		if end > len(perm) {
			end = len(perm)
		}
		batches = append(batches, perm[start:end:end])
	}
	return batches
}
