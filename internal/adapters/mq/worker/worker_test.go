package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantasybakes/internal/adapters/mq/queue"
	"github.com/okian/fantasybakes/internal/adapters/mq/worker"
	"github.com/okian/fantasybakes/internal/domain/model"
	logging "github.com/okian/fantasybakes/pkg/logger"
)

// recorder collects the changes an observer sees.
type recorder struct {
	mu   sync.Mutex
	seen []model.Change
}

func (r *recorder) observe(_ context.Context, c model.Change) {
	r.mu.Lock()
	r.seen = append(r.seen, c)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *recorder) kinds() []model.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ChangeKind, 0, len(r.seen))
	for _, c := range r.seen {
		out = append(out, c.Kind)
	}
	return out
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestDispatcher(t *testing.T) {
	convey.Convey("Given a dispatcher over an in-memory queue", t, func() {
		_ = logging.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		d := worker.NewDispatcher(q, worker.WithName("test-dispatcher"))

		convey.Convey("When two observers subscribe and changes are queued", func() {
			a, b := &recorder{}, &recorder{}
			d.Subscribe(a.observe)
			d.Subscribe(b.observe)
			d.Start(ctx)

			q.Enqueue(ctx, model.NewChange(model.ChangeScoresRecorded))
			q.Enqueue(ctx, model.NewChange(model.ChangeBakerEliminated))

			convey.Convey("Then both observers see every change in order", func() {
				convey.So(waitFor(func() bool { return a.count() == 2 && b.count() == 2 }), convey.ShouldBeTrue)
				convey.So(a.kinds(), convey.ShouldResemble, []model.ChangeKind{model.ChangeScoresRecorded, model.ChangeBakerEliminated})
				convey.So(b.kinds(), convey.ShouldResemble, a.kinds())
				convey.So(d.Delivered(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When an observer unsubscribes", func() {
			a := &recorder{}
			unsubscribe := d.Subscribe(a.observe)
			convey.So(d.Observers(), convey.ShouldEqual, 1)
			unsubscribe()
			unsubscribe()
			d.Start(ctx)

			q.Enqueue(ctx, model.NewChange(model.ChangeWeekUpdated))

			convey.Convey("Then it no longer receives changes", func() {
				convey.So(waitFor(func() bool { return d.Delivered() == 1 }), convey.ShouldBeTrue)
				convey.So(a.count(), convey.ShouldEqual, 0)
				convey.So(d.Observers(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When an observer panics", func() {
			after := &recorder{}
			d.Subscribe(func(context.Context, model.Change) { panic("boom") })
			d.Subscribe(after.observe)
			d.Start(ctx)

			q.Enqueue(ctx, model.NewChange(model.ChangeTeamUpdated))
			q.Enqueue(ctx, model.NewChange(model.ChangeBakerUpdated))

			convey.Convey("Then later observers and later changes are still delivered", func() {
				convey.So(waitFor(func() bool { return after.count() == 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down with changes still queued", func() {
			a := &recorder{}
			d.Subscribe(a.observe)
			for i := 0; i < 5; i++ {
				q.Enqueue(ctx, model.NewChange(model.ChangeCurrentWeekChanged))
			}
			d.Start(ctx)

			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()
			err := d.Shutdown(shutdownCtx)

			convey.Convey("Then the queue is drained before returning", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.count(), convey.ShouldEqual, 5)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutdown is never followed by a running loop", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer stop()
			err := d.Shutdown(shutdownCtx)

			convey.Convey("Then it times out", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the run context is cancelled", func() {
			d.Start(ctx)
			cancel()

			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()

			convey.Convey("Then shutdown returns promptly", func() {
				convey.So(d.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}
