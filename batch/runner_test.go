package batch_test

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/motorclutch/batch"
	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/monitoring"
	"github.com/sarchlab/motorclutch/trial"
)

type constantSource float64

func (s constantSource) Float64() float64 {
	return float64(s)
}

var _ = Describe("Runner", func() {
	var (
		mockCtrl *gomock.Controller
		runner   *batch.Runner
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		runner = &batch.Runner{
			Config: clutch.DefaultConfig(),
			RunConfig: trial.RunConfig{
				TimeLimit:      100,
				TogglePeriod:   50,
				SampleInterval: 20,
			},
			Trials:     2,
			BaseSeed:   100,
			FirstIndex: 3,
			Label:      "20",
			Logger:     log.New(io.Discard, "", 0),
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should name trials by index and label", func() {
		Expect(batch.TrialName(7, "40")).To(Equal("0007_factor_40"))
	})

	It("should run every trial with its own seed and recorder", func() {
		names := []string{}

		runner.NewRecorder = func(name string) (datarecording.DataRecorder, error) {
			names = append(names, name)

			recorder := NewMockDataRecorder(mockCtrl)
			recorder.EXPECT().CreateTable(name, trial.SnapshotRow{})
			recorder.EXPECT().InsertData(name, gomock.Any()).Times(6)
			recorder.EXPECT().Flush()
			recorder.EXPECT().Close()

			return recorder, nil
		}

		summary, err := runner.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"0003_factor_20", "0004_factor_20"}))
		Expect(summary.Completed).To(Equal(2))
		Expect(summary.Halted).To(BeZero())
		Expect(summary.Trials).To(HaveLen(2))
		Expect(summary.Trials[0].Seed).To(Equal(int64(103)))
		Expect(summary.Trials[1].Seed).To(Equal(int64(104)))
		Expect(summary.Trials[1].Samples).To(Equal(6))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := runner.Run(ctx)

		Expect(err).To(MatchError(context.Canceled))
		Expect(summary.Trials).To(BeEmpty())
	})

	It("should return recorder errors", func() {
		runner.NewRecorder = func(string) (datarecording.DataRecorder, error) {
			return nil, errors.New("disk full")
		}

		_, err := runner.Run(context.Background())

		Expect(err).To(MatchError(ContainSubstring("0003_factor_20: disk full")))
	})

	It("should return configuration errors", func() {
		runner.Config.Kc = 0

		_, err := runner.Run(context.Background())

		Expect(err).To(MatchError(clutch.ErrInvalidConfig))
	})

	It("should count halted trials and carry on", func() {
		runner.RunConfig.HaltOnDetachment = true
		runner.NewRandSource = func(int64) clutch.RandSource {
			return constantSource(0.99)
		}

		summary, err := runner.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Halted).To(Equal(2))
		Expect(summary.Completed).To(BeZero())
		Expect(summary.Detachments).To(Equal(2))
	})

	It("should count detachments of trials that carry on", func() {
		runner.Trials = 1
		runner.NewRandSource = func(int64) clutch.RandSource {
			return constantSource(0.99)
		}

		summary, err := runner.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Completed).To(Equal(1))
		Expect(summary.Detachments).To(Equal(21))
	})

	It("should be reproducible for a base seed", func() {
		dirA := GinkgoT().TempDir()
		dirB := GinkgoT().TempDir()

		run := func(dir string) {
			r := *runner
			r.NewRecorder = func(name string) (datarecording.DataRecorder, error) {
				return datarecording.NewCSVRecorder(dir)
			}

			_, err := r.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		}

		run(dirA)
		run(dirB)

		for _, name := range []string{"0003_factor_20.csv", "0004_factor_20.csv"} {
			a, err := os.ReadFile(filepath.Join(dirA, name))
			Expect(err).NotTo(HaveOccurred())

			b, err := os.ReadFile(filepath.Join(dirB, name))
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		}
	})

	It("should report progress to the monitor", func() {
		m := monitoring.NewMonitor()
		runner.Monitor = m

		_, err := runner.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
	})
})
