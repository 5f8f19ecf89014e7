package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/alexanderramin/buildops/internal/config"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/selection"
	"github.com/alexanderramin/buildops/internal/service"
	"github.com/alexanderramin/buildops/internal/testutil"
	"github.com/charmbracelet/x/ansi"
	"github.com/prometheus/client_golang/prometheus"
)

// testApp wires a full App over a seeded in-memory DB with no simulated
// latency.
func testApp(t *testing.T) *App {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewSeededDB(t))
	api := service.NewAPI(uow, service.WithNetwork(service.NewNetwork(service.WithLatency(0))))
	reg := prometheus.NewRegistry()
	q := query.NewQueries(query.New(query.WithRegisterer(reg)), api)

	h := selection.NewHistory(selection.DashboardPath)
	sel := selection.New(h, selection.QueryLoader(q))
	stop := selection.Follow(context.Background(), sel, h, func(err error) { t.Logf("path sync: %v", err) })
	t.Cleanup(stop)

	return &App{
		Queries:   q,
		Selection: sel,
		History:   h,
		Config:    config.Config{HTTPAddr: "127.0.0.1:0", APIURL: "https://api.test/v1/"},
		Gatherer:  reg,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr with ANSI
// styling stripped.
func executeCmd(t *testing.T, app *App, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return ansi.Strip(buf.String()), err
}
