package vector

import "fmt"

func errDimensionMismatch(want, got int) error {
	return fmt.Errorf("embedding dimension mismatch: collection expects %d, got %d", want, got)
}
