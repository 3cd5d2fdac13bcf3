package services

import (
	"go.uber.org/atomic"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
)

// DirtyFlags tracks which categories received interactions since the
// last chart refresh, so the scheduler only recomputes and broadcasts
// for categories that actually moved.
type DirtyFlags struct {
	flags map[string]*atomic.Bool
}

func NewDirtyFlags(registry *models.Registry) *DirtyFlags {
	flags := make(map[string]*atomic.Bool)
	for _, category := range registry.Categories() {
		flags[category] = atomic.NewBool(false)
	}
	return &DirtyFlags{flags: flags}
}

func (d *DirtyFlags) Mark(category string) {
	if flag, ok := d.flags[category]; ok {
		flag.Store(true)
	}
}

// TestAndClear atomically reads and resets the flag. Interactions that
// land between the read and the recompute re-mark the category and are
// picked up on the next tick.
func (d *DirtyFlags) TestAndClear(category string) bool {
	flag, ok := d.flags[category]
	if !ok {
		return false
	}
	return flag.Swap(false)
}
