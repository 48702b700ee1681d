// internal/platform/debounce/debounce.go
package debounce

import (
	"sync"
	"time"
)

// Debouncer は連続呼び出しを 1 回にまとめるユーティリティです。
// Do が呼ばれるたびに待機をやり直し、delay の間あたらしい呼び出しが
// 無かったときだけ最後の fn を実行します。先行する予約は常に破棄されます。
//
// 寄付先検索のようなキー入力連動のリクエスト間引きに使います。
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &Debouncer{delay: delay}
}

// Do は fn の実行を delay 後に予約します。未実行の予約があれば
// 新しい fn で置き換えます（最後の呼び出しだけが生き残る）。
func (d *Debouncer) Do(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel は未実行の予約を破棄します。予約が無ければ何もしません。
func (d *Debouncer) Cancel() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
