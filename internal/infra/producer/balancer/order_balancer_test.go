package balancer

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestBalance_SameOrderSamePartition(t *testing.T) {
	b := NewOrderBalancer(3)

	msg := kafka.Message{Key: []byte("42")}
	first := b.Balance(msg, 0, 1, 2)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, b.Balance(msg, 0, 1, 2))
	}
}

func TestBalance_SpreadsAcrossPartitions(t *testing.T) {
	b := NewOrderBalancer(3)

	require.Equal(t, 0, b.Balance(kafka.Message{Key: []byte("3")}, 0, 1, 2))
	require.Equal(t, 1, b.Balance(kafka.Message{Key: []byte("4")}, 0, 1, 2))
	require.Equal(t, 2, b.Balance(kafka.Message{Key: []byte("5")}, 0, 1, 2))
}

// 非數字key落到0分區，不可panic
func TestBalance_InvalidKey(t *testing.T) {
	b := NewOrderBalancer(3)
	require.Equal(t, 0, b.Balance(kafka.Message{Key: []byte("not-a-number")}, 0, 1, 2))
}

// metadata還沒回來、建構參數又是0時落到0分區，不可panic
func TestBalance_ZeroPartitions(t *testing.T) {
	b := NewOrderBalancer(0)
	require.Equal(t, 0, b.Balance(kafka.Message{Key: []byte("42")}))
}
