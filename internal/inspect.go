package internal

import (
	"context"
	stderrors "errors"
	"fmt"
	"group-chat/repositories"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

const (
	defaultInspectPrefix = "chat:"
	defaultInspectLimit  = 200
)

// RenderRows writes rows as an aligned plain text table.
func RenderRows(w io.Writer, rows []repositories.Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "At", "ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range rows {
		at := "--:--:--"
		if !row.At.IsZero() {
			at = row.At.Format(time.TimeOnly)
		}
		id := row.ID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append([]string{row.Key, row.Type, at, id, row.Detail})
	}
	table.Render()
}

// InspectHandler serves the stored records: /inspect?prefix=msg:&limit=50
func InspectHandler(db *badger.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultInspectPrefix
		}
		limit := defaultInspectLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		rows, err := repositories.Inspect(db, prefix, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintf(w, "prefix=%q rows=%d\n\n", prefix, len(rows))
		RenderRows(w, rows)
	})
}

// DebugServer exposes the inspection and stats endpoints on a dedicated port, away from the public API.
type DebugServer struct {
	log   *slog.Logger
	db    *badger.DB
	port  int
	stats http.Handler
}

func NewDebugServer(log *slog.Logger, db *badger.DB, port int, stats http.Handler) *DebugServer {
	return &DebugServer{log: log, db: db, port: port, stats: stats}
}

func (d *DebugServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/inspect", InspectHandler(d.db))
	if d.stats != nil {
		mux.Handle("/stats", d.stats)
	}
	server := &http.Server{
		Addr:              net.JoinHostPort("localhost", strconv.Itoa(d.port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.log.Info("Debug server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
