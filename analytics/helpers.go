package analytics

import (
	"fmt"
	"strconv"
	"time"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %d", n)
	}
	return n, nil
}
