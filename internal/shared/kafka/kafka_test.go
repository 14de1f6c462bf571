package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"localhost:9092", []string{"localhost:9092"}},
		{"a:9092,b:9092", []string{"a:9092", "b:9092"}},
		{"a:9092, b:9092 ,c:9092", []string{"a:9092", "b:9092", "c:9092"}},
		{"a:9092,", []string{"a:9092"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, brokerList(tt.in), tt.in)
	}
}

func TestNewReaderSplitsBrokers(t *testing.T) {
	r := NewReader("a:9092,b:9092", "bet_placed", "audit-worker")
	defer r.Close()

	cfg := r.Config()
	require.Len(t, cfg.Brokers, 2)
	assert.Equal(t, "a:9092", cfg.Brokers[0])
	assert.Equal(t, "b:9092", cfg.Brokers[1])
	assert.Equal(t, "bet_placed", cfg.Topic)
}
