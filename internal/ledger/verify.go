package ledger

import "fmt"

// Verify recomputes every record hash and link to detect tampering.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.records {
		h, err := r.ComputeHash()
		if err != nil {
			return fmt.Errorf("compute hash for index %d: %w", r.Index, err)
		}
		if h != r.Hash {
			return fmt.Errorf("hash mismatch at index %d", r.Index)
		}
		if i > 0 && r.PrevHash != l.records[i-1].Hash {
			return fmt.Errorf("prev hash mismatch at index %d", r.Index)
		}
		if i == 0 && r.PrevHash != "" {
			return fmt.Errorf("first record has non-empty prev hash")
		}
		if r.Index != i {
			return fmt.Errorf("index mismatch: expected %d, got %d", i, r.Index)
		}
	}
	return nil
}
