// Package monitoring serves a running batch over HTTP so that it can be
// paused, continued, and inspected.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/sim"
	"github.com/sarchlab/motorclutch/trial"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor can turn a batch into a server and allows external monitoring
// controlling of the running trial.
type Monitor struct {
	portNumber      int
	profileDuration time.Duration

	lock   sync.Mutex
	trial  *trial.Trial
	paused bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTrial sets the trial that the monitor controls and inspects. If the
// monitor is paused, the engine of the new trial starts paused.
func (m *Monitor) RegisterTrial(t *trial.Trial) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.trial != nil && m.paused {
		m.trial.Engine().Continue()
	}

	m.trial = t

	if m.paused {
		t.Engine().Pause()
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the list of progress bars.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/state", m.dumpState)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() (int, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return 0, err
	}

	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	m.server = &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Printf("monitoring server stopped: %v", err)
		}
	}()

	return port, nil
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) currentTrialOr404(w http.ResponseWriter) *trial.Trial {
	m.lock.Lock()
	t := m.trial
	m.lock.Unlock()

	if t == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No trial is running"))
		dieOnErr(err)
	}

	return t
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.paused && m.trial != nil {
		m.trial.Engine().Pause()
	}

	m.paused = true

	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.paused && m.trial != nil {
		m.trial.Engine().Continue()
	}

	m.paused = false

	_, err := w.Write(nil)
	dieOnErr(err)
}

type nowRsp struct {
	Trial  string  `json:"trial"`
	Cycle  uint64  `json:"cycle"`
	Time   float64 `json:"time"`
	Paused bool    `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	t := m.currentTrialOr404(w)
	if t == nil {
		return
	}

	cycle := t.Engine().CurrentTime()

	m.lock.Lock()
	rsp := nowRsp{
		Trial:  t.Name(),
		Cycle:  uint64(cycle),
		Time:   t.Clock().Time(cycle),
		Paused: m.paused,
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) dumpState(w http.ResponseWriter, _ *http.Request) {
	t := m.currentTrialOr404(w)
	if t == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.cloneState(t))
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

// cloneState copies the model state between two events. The engine is paused
// for the copy unless it is paused already.
func (m *Monitor) cloneState(t *trial.Trial) *clutch.State {
	m.lock.Lock()
	defer m.lock.Unlock()

	engine := t.Engine()
	if !engine.IsPaused() {
		engine.Pause()
		defer engine.Continue()
	}

	return t.Model().State().Clone()
}

type fieldReq struct {
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	t := m.currentTrialOr404(w)
	if t == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.cloneState(t))
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
