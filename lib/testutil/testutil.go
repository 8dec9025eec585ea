package testutil

import (
	"fmt"
	"sync"
	"testing"

	"tsb-banking/lib/telemetry"

	"github.com/mazen160/go-random"
)

type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Telemetry is a telemetry.API that records every report and forwards it to
// slog so failing tests still show the logs.
type Telemetry struct {
	mutex   sync.Mutex
	reports []Report
	slog    telemetry.SlogAPI
}

func NewTelemetry(t testing.TB) *Telemetry {
	telemetry.InitSlog(testing.Verbose())
	return &Telemetry{}
}

func (r *Telemetry) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *Telemetry) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
	r.slog.ReportBroken(id, params...)
}

func (r *Telemetry) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
	r.slog.ReportWarning(id, params...)
}

func (r *Telemetry) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
	r.slog.ReportDebug(msg, params...)
}

func (r *Telemetry) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
	r.slog.ReportCount(id, count)
}

// Reports returns the reports of the given kind ("broken", "warning",
// "debug", "count").
func (r *Telemetry) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, rep := range r.reports {
		if rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}

// RandomString returns a random alphanumeric string, failing the test if the
// system's random source is unavailable.
func RandomString(t testing.TB, length int) string {
	str, err := random.String(length)
	if err != nil {
		t.Fatal(fmt.Errorf("random string: %w", err))
	}
	return str
}
