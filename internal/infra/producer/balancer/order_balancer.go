package balancer

import (
	"strconv"

	"github.com/segmentio/kafka-go"
)

// OrderBalancer 以order id決定分區
// 同一張訂單的事件落在同一分區，消費端才看得到順序
type OrderBalancer struct {
	numPartitions int
}

func NewOrderBalancer(numPartitions int) *OrderBalancer {
	return &OrderBalancer{numPartitions: numPartitions}
}

func (b *OrderBalancer) Balance(msg kafka.Message, partitions ...int) (partition int) {
	orderID, err := strconv.Atoi(string(msg.Key))
	if err != nil {
		return 0
	}

	if len(partitions) != 0 {
		return partitions[orderID%len(partitions)]
	}
	if b.numPartitions < 1 {
		return 0
	}

	return orderID % b.numPartitions
}
