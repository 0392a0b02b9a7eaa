// Package id hands out time-ordered int64 identifiers for stores that do not
// have their own sequence.
package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init sets the snowflake node number. Only the first call has an effect.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// New generates an id, initializing node 1 if Init was never called.
func New() int64 {
	if err := Init(1); err != nil {
		panic("id: " + err.Error())
	}
	return node.Generate().Int64()
}
