package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOnlyLastCallFires(t *testing.T) {
	d := New(30 * time.Millisecond)

	var got atomic.Int32
	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Do(func() { got.Store(v) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(5), got.Load())
}

func TestCancelDropsPendingCall(t *testing.T) {
	d := New(20 * time.Millisecond)

	var fired atomic.Bool
	d.Do(func() { fired.Store(true) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestSeparatedCallsBothFire(t *testing.T) {
	d := New(10 * time.Millisecond)

	var count atomic.Int32
	d.Do(func() { count.Add(1) })
	time.Sleep(40 * time.Millisecond)
	d.Do(func() { count.Add(1) })
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, int32(2), count.Load())
}
