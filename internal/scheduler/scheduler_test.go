package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTrainer struct {
	calls  int
	result bool
}

func (f *fakeTrainer) RetrainModel() bool {
	f.calls++
	return f.result
}

func TestRunRetrainInvokesTrainer(t *testing.T) {
	trainer := &fakeTrainer{result: true}
	s := New(trainer)

	s.runRetrain()
	assert.Equal(t, 1, trainer.calls)

	trainer.result = false
	s.runRetrain()
	assert.Equal(t, 2, trainer.calls)
}

func TestStartAndStop(t *testing.T) {
	t.Setenv("RETRAIN_HOUR", "5")
	s := New(&fakeTrainer{})
	s.Start()
	s.Stop()
}
