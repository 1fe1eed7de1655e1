package gormstore

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

const orderNumberPrefix = "SW-"

// OrderNumbers hands out short, unique, human readable order numbers.
type OrderNumbers struct {
	node *snowflake.Node
}

// NewOrderNumbers needs a node id in [0, 1023] unique per running instance.
func NewOrderNumbers(nodeID int64) (*OrderNumbers, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &OrderNumbers{node: node}, nil
}

func (n *OrderNumbers) Next() string {
	return orderNumberPrefix + strings.ToUpper(n.node.Generate().Base36())
}
