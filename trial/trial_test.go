package trial_test

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/sim"
	"github.com/sarchlab/motorclutch/trial"
)

type eventRecorder struct {
	cycle  sim.VTimeInCycle
	events []string
}

func (h *eventRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return
	}

	evt := ctx.Item.(sim.Event)
	if evt.Time() == h.cycle {
		h.events = append(h.events, reflect.TypeOf(evt).Name())
	}
}

var _ = Describe("Trial", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		runCfg   trial.RunConfig
		builder  trial.Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)

		runCfg = trial.RunConfig{
			TimeLimit:      100,
			TogglePeriod:   50,
			SampleInterval: 20,
		}

		builder = trial.MakeBuilder().
			WithName("t0").
			WithRunConfig(runCfg).
			WithRandSource(constantSource(0)).
			WithRecorder(recorder).
			WithLogger(log.New(io.Discard, "", 0))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject invalid model configurations", func() {
		cfg := clutch.DefaultConfig()
		cfg.Fb = 0

		_, err := builder.WithConfig(cfg).Build()

		Expect(err).To(MatchError(clutch.ErrInvalidConfig))
	})

	It("should reject runs that grow the ensemble beyond the limit", func() {
		cfg := clutch.DefaultConfig()
		cfg.IntegrinEngage = 1e6

		_, err := builder.WithConfig(cfg).Build()

		Expect(err).To(MatchError(ContainSubstring("integrin_engage")))
	})

	It("should reject sample intervals that are not a whole number of steps", func() {
		runCfg.SampleInterval = 12

		_, err := builder.WithRunConfig(runCfg).Build()

		Expect(errors.Is(err, sim.ErrTickPrecisionLoss)).To(BeTrue())
	})

	It("should step, sample, and toggle on schedule", func() {
		rows := []trial.SnapshotRow{}

		recorder.EXPECT().CreateTable("t0", trial.SnapshotRow{})
		recorder.EXPECT().
			InsertData("t0", gomock.Any()).
			Do(func(_ string, entry any) {
				rows = append(rows, entry.(trial.SnapshotRow))
			}).
			Times(6)
		recorder.EXPECT().Flush()

		t, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.TotalSteps()).To(Equal(uint64(21)))

		Expect(t.Run()).To(Succeed())

		Expect(t.Model().State().Ticks).To(Equal(uint64(21)))
		Expect(t.Model().State().ElapsedTime).To(Equal(105.0))
		Expect(t.Model().State().Mode).To(Equal(clutch.Hard))
		Expect(t.Samples()).To(Equal(6))
		Expect(t.Halted()).To(BeFalse())
		Expect(t.Detachments()).To(BeEmpty())

		times := []float64{}
		modes := []string{}
		for _, r := range rows {
			times = append(times, r.Time)
			modes = append(modes, r.Mode)
		}

		Expect(times).To(Equal([]float64{0, 20, 40, 60, 80, 100}))
		Expect(modes).To(Equal(
			[]string{"hard", "hard", "hard", "soft", "soft", "hard"}))
		Expect(rows[0].BoundFraction).To(Equal(1.0))
		Expect(rows[0].Radius).To(Equal(20000.0))
	})

	It("should toggle, then sample, then step at shared instants", func() {
		recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any())
		recorder.EXPECT().InsertData(gomock.Any(), gomock.Any()).AnyTimes()
		recorder.EXPECT().Flush()

		t, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		hook := &eventRecorder{cycle: 10}
		t.Engine().AcceptHook(hook)

		Expect(t.Run()).To(Succeed())

		Expect(hook.events).To(Equal(
			[]string{"ToggleEvent", "SampleEvent", "StepEvent"}))
	})

	It("should never toggle when the period is 0", func() {
		runCfg.TogglePeriod = 0
		recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any())
		recorder.EXPECT().
			InsertData(gomock.Any(), gomock.Any()).
			Do(func(_ string, entry any) {
				Expect(entry.(trial.SnapshotRow).Mode).To(Equal("hard"))
			}).
			AnyTimes()
		recorder.EXPECT().Flush()

		t, err := builder.WithRunConfig(runCfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())
	})

	It("should flush the recorder when the engine finishes", func() {
		t, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		recorder.EXPECT().Flush()

		t.Engine().Finished()
	})

	It("should run without a recorder", func() {
		t, err := builder.WithRecorder(nil).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())
		Expect(t.Samples()).To(Equal(6))
	})

	It("should report progress for every step", func() {
		progress := NewMockProgressTracker(mockCtrl)
		progress.EXPECT().IncrementFinished(uint64(1)).Times(21)

		t, err := builder.WithRecorder(nil).WithProgress(progress).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())
	})

	Context("when every clutch detaches", func() {
		BeforeEach(func() {
			builder = builder.WithRandSource(constantSource(0.99))
		})

		It("should carry on and record NaN by default", func() {
			netForces := []float64{}

			recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any())
			recorder.EXPECT().
				InsertData(gomock.Any(), gomock.Any()).
				Do(func(_ string, entry any) {
					netForces = append(netForces, entry.(trial.SnapshotRow).NetForce)
				}).
				Times(6)
			recorder.EXPECT().Flush()

			t, err := builder.Build()
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Run()).To(Succeed())

			Expect(t.Detachments()).To(HaveLen(21))
			Expect(errors.Is(t.Detachments()[0], clutch.ErrNoBoundClutches)).
				To(BeTrue())
			Expect(math.IsNaN(netForces[1])).To(BeTrue())
		})

		It("should halt when asked to", func() {
			runCfg.HaltOnDetachment = true

			recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any())
			recorder.EXPECT().InsertData(gomock.Any(), gomock.Any())
			recorder.EXPECT().Flush()

			t, err := builder.WithRunConfig(runCfg).Build()
			Expect(err).NotTo(HaveOccurred())

			err = t.Run()

			Expect(errors.Is(err, clutch.ErrNoBoundClutches)).To(BeTrue())
			Expect(t.Halted()).To(BeTrue())
			Expect(t.Detachments()).To(HaveLen(1))
			Expect(t.Model().State().Ticks).To(Equal(uint64(1)))
		})
	})

	It("should log events when asked to", func() {
		buf := new(bytes.Buffer)

		t, err := builder.
			WithRecorder(nil).
			WithLogger(log.New(buf, "", 0)).
			WithEventLogging().
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("0, trial.StepEvent -> t0.Stepper"))
		Expect(buf.String()).To(ContainSubstring("10, trial.ToggleEvent -> t0.Perturber"))
		Expect(buf.String()).To(ContainSubstring("t0: t=50 switched to soft"))
	})

	It("should log numeric warnings", func() {
		buf := new(bytes.Buffer)

		t, err := builder.
			WithRecorder(nil).
			WithLogger(log.New(buf, "", 0)).
			WithSanityBound(0.1).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("t0: warning: tick 0"))
	})

	It("should pass hooks to the model", func() {
		hook := &eventRecorder{}

		t, err := builder.WithRecorder(nil).WithHook(hook).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Model().NumHooks()).To(Equal(2))
	})

	It("should only run once", func() {
		t, err := builder.WithRecorder(nil).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Run()).To(Succeed())
		Expect(func() { _ = t.Run() }).To(Panic())
	})

	It("should name unnamed trials by id", func() {
		t, err := builder.WithName("").WithRecorder(nil).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Name()).To(Equal("trial_" + t.ID()))
	})
})
