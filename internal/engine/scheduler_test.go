package engine_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algostep/internal/engine"
)

var _ = Describe("Scheduler", func() {
	var (
		sched *engine.Scheduler
		rec   *engine.Recorder
		pb    *playback
		done  *completion
	)

	BeforeEach(func() {
		var err error
		sched, err = engine.New(fastConfig(), engine.WithLogger(quietLogger()))
		Expect(err).NotTo(HaveOccurred())
		rec = engine.NewRecorder()
		pb = newPlayback(10)
		done = &completion{}
	})

	It("publishes every step in order and completes once", func() {
		h := sched.Start(context.Background(), &countDriver{n: 5}, rec, pb, done.fn)
		Eventually(h.Done()).Should(BeClosed())

		frames := rec.Frames()
		Expect(snapshots(frames)).To(Equal([]any{1, 2, 3, 4, 5}))
		for i, f := range frames {
			Expect(f.Seq).To(Equal(i + 1))
			Expect(f.Run).To(Equal(h.ID()))
			Expect(f.Algorithm).To(Equal("count"))
		}
		Expect(h.Reason()).To(Equal(engine.ReasonCompleted))
		Expect(h.Steps()).To(Equal(5))
		Expect(done.calls.Load()).To(Equal(int32(1)))
		Expect(done.payload.Load()).To(Equal(5))
	})

	It("reports exhaustion but still completes", func() {
		h := sched.Start(context.Background(), &countDriver{n: 2, exhausted: true}, rec, pb, done.fn)
		h.Wait()
		Expect(h.Reason()).To(Equal(engine.ReasonExhausted))
		Expect(done.calls.Load()).To(Equal(int32(1)))
	})

	It("never publishes when the context is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h := sched.Start(ctx, &countDriver{n: 5}, rec, pb, done.fn)
		h.Wait()

		Expect(rec.Len()).To(BeZero())
		Expect(h.Reason()).To(Equal(engine.ReasonCancelled))
		Expect(done.calls.Load()).To(BeZero())
	})

	It("stops publishing once a cancel mid-run is observed", func() {
		h := sched.Start(context.Background(), &countDriver{n: 1000}, rec, pb, done.fn)
		Eventually(rec.Len).Should(BeNumerically(">=", 3))

		h.Stop()
		seen := rec.Len()
		Consistently(rec.Len, 30*time.Millisecond, 5*time.Millisecond).Should(Equal(seen))
		Expect(seen).To(BeNumerically("<", 1000))
		Expect(h.Reason()).To(Equal(engine.ReasonCancelled))
		Expect(done.calls.Load()).To(BeZero())
	})

	It("observes cancellation while paused", func() {
		pb.paused.Store(true)
		h := sched.Start(context.Background(), &countDriver{n: 10}, rec, pb, done.fn)

		Consistently(rec.Len, 20*time.Millisecond, 2*time.Millisecond).Should(BeZero())
		Expect(h.Active()).To(BeTrue())

		h.Cancel()
		Eventually(h.Done()).Should(BeClosed())
		Expect(rec.Len()).To(BeZero())
		Expect(h.Reason()).To(Equal(engine.ReasonCancelled))
		Expect(done.calls.Load()).To(BeZero())
	})

	It("resumes from the exact step that was about to run", func() {
		h := sched.Start(context.Background(), &countDriver{n: 12}, rec, pb, done.fn)
		Eventually(rec.Len).Should(BeNumerically(">=", 2))

		pb.paused.Store(true)
		time.Sleep(5 * time.Millisecond)
		frozen := rec.Len()
		Consistently(rec.Len, 20*time.Millisecond, 2*time.Millisecond).Should(Equal(frozen))

		pb.paused.Store(false)
		Eventually(h.Done()).Should(BeClosed())
		Expect(snapshots(rec.Frames())).To(Equal([]any{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
		Expect(done.calls.Load()).To(Equal(int32(1)))
	})

	It("treats Cancel after completion as a no-op", func() {
		h := sched.Start(context.Background(), &countDriver{n: 1}, rec, pb, done.fn)
		h.Wait()
		h.Cancel()
		h.Cancel()
		Expect(h.Reason()).To(Equal(engine.ReasonCompleted))
		Expect(done.calls.Load()).To(Equal(int32(1)))
	})

	It("terminates without completion when a step fails", func() {
		h := sched.Start(context.Background(), &countDriver{n: 10, failAt: 3}, rec, pb, done.fn)
		h.Wait()

		Expect(h.Reason()).To(Equal(engine.ReasonFailed))
		Expect(rec.Len()).To(Equal(2))
		Expect(done.calls.Load()).To(BeZero())

		var serr *engine.StepError
		Expect(errors.As(h.Err(), &serr)).To(BeTrue())
		Expect(serr.Step).To(Equal(3))
		Expect(errors.Is(h.Err(), errBoom)).To(BeTrue())
	})

	It("recovers a panicking driver", func() {
		h := sched.Start(context.Background(), &countDriver{n: 10, panicAt: 2}, rec, pb, done.fn)
		h.Wait()

		Expect(h.Reason()).To(Equal(engine.ReasonFailed))
		Expect(errors.Is(h.Err(), engine.ErrDriverPanic)).To(BeTrue())
		Expect(rec.Len()).To(Equal(1))
		Expect(done.calls.Load()).To(BeZero())
	})

	It("recovers a panicking sink", func() {
		sink := engine.SinkFunc(func(engine.Frame) { panic("render failed") })
		h := sched.Start(context.Background(), &countDriver{n: 3}, sink, pb, done.fn)
		h.Wait()

		Expect(h.Reason()).To(Equal(engine.ReasonFailed))
		Expect(done.calls.Load()).To(BeZero())
	})

	DescribeTable("fails the run when a driver method panics",
		func(method string) {
			h := sched.Start(context.Background(), &panicky{countDriver: countDriver{n: 3}, in: method}, rec, pb, done.fn)
			h.Wait()

			Expect(h.Reason()).To(Equal(engine.ReasonFailed))
			Expect(errors.Is(h.Err(), engine.ErrDriverPanic)).To(BeTrue())
			Expect(done.calls.Load()).To(BeZero())
		},
		Entry("Validate", "Validate"),
		Entry("Done", "Done"),
		Entry("Result", "Result"),
	)

	DescribeTable("fails the run when the controller panics",
		func(method string) {
			h := sched.Start(context.Background(), &countDriver{n: 3}, rec, brokenControl{in: method}, done.fn)
			h.Wait()

			Expect(h.Reason()).To(Equal(engine.ReasonFailed))
			Expect(errors.Is(h.Err(), engine.ErrDriverPanic)).To(BeTrue())
			Expect(done.calls.Load()).To(BeZero())
		},
		Entry("Paused", "Paused"),
		Entry("Speed", "Speed"),
	)

	It("runs at full speed without a controller", func() {
		h := sched.Start(context.Background(), &countDriver{n: 4}, rec, nil, done.fn)
		h.Wait()

		Expect(h.Reason()).To(Equal(engine.ReasonCompleted))
		Expect(rec.Len()).To(Equal(4))
		Expect(done.calls.Load()).To(Equal(int32(1)))
	})

	It("completes invalid input immediately with an empty result", func() {
		d := &countDriver{n: 3, invalid: engine.ErrInvalidInput}
		h := sched.Start(context.Background(), d, rec, pb, done.fn)
		h.Wait()

		Expect(h.Reason()).To(Equal(engine.ReasonInvalid))
		Expect(errors.Is(h.Err(), engine.ErrInvalidInput)).To(BeTrue())
		Expect(rec.Len()).To(BeZero())
		Expect(done.calls.Load()).To(Equal(int32(1)))
		Expect(done.payload.Load()).To(BeNil())
	})

	It("yields the same frames at every speed", func() {
		run := func(speed int) []any {
			r := engine.NewRecorder()
			h := sched.Start(context.Background(), &countDriver{n: 8}, r, newPlayback(speed), nil)
			h.Wait()
			return snapshots(r.Frames())
		}
		Expect(run(1)).To(Equal(run(20)))
	})

	It("uses a step's own delay when set", func() {
		slow, err := engine.New(engine.Config{
			BaseDelay:    time.Hour,
			PollInterval: time.Millisecond,
			MinSpeed:     1,
			MaxSpeed:     20,
		}, engine.WithLogger(quietLogger()))
		Expect(err).NotTo(HaveOccurred())

		h := slow.Start(context.Background(), newFixedDelay(3), rec, pb, done.fn)
		Eventually(h.Done(), time.Second).Should(BeClosed())
		Expect(rec.Len()).To(Equal(3))
	})
})

type fixedDelayDriver struct{ countDriver }

func newFixedDelay(n int) *fixedDelayDriver { return &fixedDelayDriver{countDriver{n: n}} }

func (f *fixedDelayDriver) Step() (engine.Step, error) {
	st, err := f.countDriver.Step()
	st.Delay = time.Millisecond
	return st, err
}
