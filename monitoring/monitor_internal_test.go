package monitoring

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/motorclutch/sim"
	"github.com/sarchlab/motorclutch/trial"
)

func buildTrial(name string) *trial.Trial {
	return buildTrialUntil(name, 100)
}

func buildTrialUntil(name string, timeLimit float64) *trial.Trial {
	t, err := trial.MakeBuilder().
		WithName(name).
		WithRunConfig(trial.RunConfig{
			TimeLimit:      timeLimit,
			TogglePeriod:   50,
			SampleInterval: 20,
		}).
		WithSeed(1).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
	Expect(err).NotTo(HaveOccurred())

	return t
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		m.profileDuration = 10 * time.Millisecond
	})

	It("should answer 404 before a trial is registered", func() {
		rec := get("/api/now")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should report the current time of the trial", func() {
		t := buildTrial("t0")
		m.RegisterTrial(t)
		Expect(t.Run()).To(Succeed())

		rec := get("/api/now")

		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := nowRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Trial).To(Equal("t0"))
		Expect(rsp.Cycle).To(Equal(uint64(20)))
		Expect(rsp.Time).To(Equal(100.0))
		Expect(rsp.Paused).To(BeFalse())
	})

	It("should pause and continue the engine", func() {
		t := buildTrial("t0")
		m.RegisterTrial(t)
		engine := t.Engine().(*sim.SerialEngine)

		get("/api/pause")
		Expect(engine.IsPaused()).To(BeTrue())

		get("/api/pause")
		Expect(engine.IsPaused()).To(BeTrue())

		get("/api/continue")
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should keep the next trial paused", func() {
		first := buildTrial("t0")
		m.RegisterTrial(first)
		get("/api/pause")

		second := buildTrial("t1")
		m.RegisterTrial(second)

		Expect(first.Engine().(*sim.SerialEngine).IsPaused()).To(BeFalse())
		Expect(second.Engine().(*sim.SerialEngine).IsPaused()).To(BeTrue())

		get("/api/continue")
		Expect(second.Engine().(*sim.SerialEngine).IsPaused()).To(BeFalse())
	})

	It("should dump the model state", func() {
		m.RegisterTrial(buildTrial("t0"))

		rec := get("/api/state")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Radius"))
	})

	It("should dump one field of the model state", func() {
		m.RegisterTrial(buildTrial("t0"))

		rec := get("/api/field/" + url.PathEscape(`{"field_name":"Force"}`))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should serve the state while the trial runs", func() {
		t := buildTrialUntil("t0", 50000)
		m.RegisterTrial(t)

		done := make(chan error)
		go func() { done <- t.Run() }()

		for i := 0; i < 50; i++ {
			Expect(get("/api/state").Code).To(Equal(http.StatusOK))

			rec := get("/api/field/" + url.PathEscape(`{"field_name":"Bound"}`))
			Expect(rec.Code).To(Equal(http.StatusOK))
		}

		Eventually(done, "10s").Should(Receive(BeNil()))
		Expect(t.Engine().IsPaused()).To(BeFalse())
		Expect(t.Model().State().Ticks).To(Equal(uint64(10001)))
	})

	It("should leave a paused engine paused after a dump", func() {
		t := buildTrial("t0")
		m.RegisterTrial(t)
		get("/api/pause")

		Expect(get("/api/state").Code).To(Equal(http.StatusOK))

		Expect(t.Engine().IsPaused()).To(BeTrue())
		get("/api/continue")
		Expect(t.Engine().IsPaused()).To(BeFalse())
	})

	It("should reject malformed field requests", func() {
		m.RegisterTrial(buildTrial("t0"))

		rec := get("/api/field/" + url.PathEscape(`{"field_name":`))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list and complete progress bars", func() {
		bar := m.CreateProgressBar("trials", 3)
		bar.IncrementInProgress(1)
		bar.MoveInProgressToFinished(1)
		m.CreateProgressBar("steps", 21).IncrementFinished(5)

		bars := []ProgressBar{}
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(2))
		Expect(bars[0].Name).To(Equal("trials"))
		Expect(bars[0].Total).To(Equal(uint64(3)))
		Expect(bars[0].Finished).To(Equal(uint64(1)))
		Expect(bars[0].InProgress).To(BeZero())
		Expect(bars[1].Finished).To(Equal(uint64(5)))

		m.CompleteProgressBar(bar)

		bars = []ProgressBar{}
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("steps"))
	})

	It("should report resource usage", func() {
		rec := get("/api/resource")

		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := resourceRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a cpu profile", func() {
		rec := get("/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("SampleType"))
	})

	It("should reject well-known ports", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(BeZero())
	})
})
