package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewForest(t *testing.T) {
	r, err := NewForest(Config{Outputs: 3})
	assert.NoError(t, err)
	assert.Equal(t, 3, r.OutputClasses())

	_, err = NewForest(Config{})
	assert.Error(t, err)
}

func TestForest_PretrainIsNoop(t *testing.T) {
	r, err := NewForest(Config{Outputs: 3})
	assert.NoError(t, err)
	assert.NoError(t, r.Pretrain(nil, 25))
}

func TestForest_PredictUntrained(t *testing.T) {
	r, err := NewForest(Config{Outputs: 3})
	assert.NoError(t, err)
	assert.Equal(t, 0, r.Predict([]float64{1, 2, 3}))
}

func TestForest_StopsAfterOneEpoch(t *testing.T) {
	r, err := NewForest(Config{Outputs: 2})
	assert.NoError(t, err)
	assert.True(t, r.StopEpoch(0, 0.1, 0.1))
	assert.Equal(t, 0.1, r.StopTraining())
}

func TestForest_Registry(t *testing.T) {
	network, err := New(ForestKey, Config{Outputs: 5})
	assert.NoError(t, err)
	assert.Equal(t, 5, network.OutputClasses())
}
