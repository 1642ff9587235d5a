package main

import (
	"fmt"
	"time"
)

const timeRounding = 10 * time.Millisecond

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

func formatInt(value int) string {
	// Thousands separators keep wide counts readable in status tables.
	s := []byte{}
	n := value
	if n < 0 {
		n = -n
	}
	digits := 0
	for {
		s = append([]byte{byte('0' + n%10)}, s...)
		n /= 10
		digits++
		if n == 0 {
			break
		}
		if digits%3 == 0 {
			s = append([]byte{','}, s...)
		}
	}
	if value < 0 {
		s = append([]byte{'-'}, s...)
	}
	return string(s)
}
