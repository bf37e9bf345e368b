package todo

import (
	"fmt"

	"github.com/josephgoksu/todowing/models"
)

// RemainingLabel renders a remaining count the way the footer shows it.
func RemainingLabel(n int) string {
	if n == 1 {
		return "1 task left"
	}
	return fmt.Sprintf("%d tasks left", n)
}

// EmptyMessage is the text shown when a view has no tasks.
func EmptyMessage(f models.Filter) string {
	switch f {
	case models.FilterActive:
		return "No active tasks. Good job!"
	case models.FilterCompleted:
		return "No completed tasks yet"
	default:
		return "Add your first task above!"
	}
}
