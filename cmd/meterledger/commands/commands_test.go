package commands_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nls04/meterledger/cmd/meterledger/commands"
	"github.com/nls04/meterledger/internal/core/model"
	"github.com/nls04/meterledger/internal/repository/sqlite"
	"github.com/nls04/meterledger/pkg/config"
	"github.com/nls04/meterledger/pkg/metrics"
)

func newTestApp(t *testing.T) *commands.App {
	t.Helper()

	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() { _ = repo.Close() })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	return &commands.App{
		Config:         cfg,
		Repo:           repo,
		Logger:         slog.New(slog.NewTextHandler(new(bytes.Buffer), nil)),
		Tracer:         tp.Tracer("test"),
		Metrics:        metrics.New(prometheus.NewRegistry()),
		MetricsHandler: http.NotFoundHandler(),
	}
}

func TestReadingCommand_AddListRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	root := commands.NewReadingCommand(app)
	root.SetArgs([]string{"add", "--date", "2025-01-01", "--electricity", "100"})
	require.NoError(t, root.Execute())

	var out bytes.Buffer

	root = commands.NewReadingCommand(app)
	root.SetOut(&out)
	root.SetArgs([]string{"list"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "2025-01-01")

	root = commands.NewReadingCommand(app)
	root.SetArgs([]string{"rm", "--date", "2025-01-01"})
	require.NoError(t, root.Execute())

	out.Reset()
	root = commands.NewReadingCommand(app)
	root.SetOut(&out)
	root.SetArgs([]string{"list"})
	require.NoError(t, root.Execute())
	assert.NotContains(t, out.String(), "2025-01-01")
}

func TestPersonCommand_AddListRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	root := commands.NewPersonCommand(app)
	root.SetArgs([]string{"add", "--name", "alice", "--move-in", "2025-01-01"})
	require.NoError(t, root.Execute())

	var out bytes.Buffer

	root = commands.NewPersonCommand(app)
	root.SetOut(&out)
	root.SetArgs([]string{"list"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "alice")

	root = commands.NewPersonCommand(app)
	root.SetArgs([]string{"rm", "--name", "alice"})
	require.NoError(t, root.Execute())
}

func TestInvoiceCommand_ComputesAndRendersSplit(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Repo.AddPerson(ctx, personFixture("alice", "2025-01-01", "2025-02-01")))
	require.NoError(t, app.Repo.AddPerson(ctx, personFixture("bob", "2025-02-01", "2025-03-01")))

	var out bytes.Buffer

	root := commands.NewInvoiceCommand(app)
	root.SetOut(&out)
	root.SetArgs([]string{"--from", "2025-01-01", "--to", "2025-03-01", "--amount", "100"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "bob")
}

func personFixture(name, moveIn, moveOut string) model.Person {
	in, err := time.Parse("2006-01-02", moveIn)
	if err != nil {
		panic(err)
	}

	out, err := time.Parse("2006-01-02", moveOut)
	if err != nil {
		panic(err)
	}

	return model.Person{Name: name, MoveIn: in, MoveOut: &out}
}
