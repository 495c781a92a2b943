package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/export"
	"github.com/matzehuels/taskgraph/pkg/graphdoc"
	"github.com/matzehuels/taskgraph/pkg/monitor"
	"github.com/matzehuels/taskgraph/pkg/observability"
	"github.com/matzehuels/taskgraph/pkg/store"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, r, "list", "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": ids, "count": len(ids)})
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var doc graphdoc.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding document: %w", err))
		return
	}
	doc.GraphID = id

	// Reject documents that cannot rebuild into a valid graph.
	if _, err := graphdoc.ToGraph(doc); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	start := time.Now()
	if err := s.store.Put(r.Context(), &doc); err != nil {
		s.storeError(w, r, "put", id, err)
		return
	}
	observability.Store().OnStorePut(r.Context(), id, time.Since(start))

	writeJSON(w, http.StatusOK, map[string]any{
		"graph_id": id,
		"nodes":    len(doc.Nodes),
		"edges":    len(doc.Edges),
	})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	doc, err := s.store.Get(r.Context(), id)
	observability.Store().OnStoreGet(r.Context(), id, err == nil, time.Since(start))
	if err != nil {
		s.storeError(w, r, "get", id, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, "delete", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGraph(w, r)
	if err != nil {
		return
	}

	ctx := r.Context()
	key := cache.ReportKey(g.ID, g.Version())

	// Reads failing with a retryable error (Redis outages) are retried
	// before falling back to recomputing.
	var (
		data []byte
		hit  bool
	)
	err = cache.RetryWithBackoff(ctx, func() error {
		var getErr error
		data, hit, getErr = s.cache.Get(ctx, key)
		return getErr
	})
	if err == nil && hit {
		var cached analyzer.Report
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "report")
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}
	observability.Cache().OnCacheMiss(ctx, "report")

	report := analyzer.New(g).AnalysisReport()
	if data, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, data, cache.TTLReport); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGraphHealth(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGraph(w, r)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, analyzer.New(g).GraphHealth())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGraph(w, r)
	if err != nil {
		return
	}

	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil || format == export.FormatSummary {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported export format %q", name))
		return
	}

	ctx := r.Context()

	// The JSON export is the serialized graph document; cache it under the
	// graph key so repeated fetches skip the marshal.
	var graphKey string
	if format == export.FormatJSON {
		graphKey = cache.GraphKey(g.ID, g.Version())
		if data, hit, err := s.cache.Get(ctx, graphKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	detailed := r.URL.Query().Get("detailed") == "true"
	data, err := export.Graph(ctx, g, format, export.DOTOptions{Detailed: detailed})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if graphKey != "" {
		if err := s.cache.Set(ctx, graphKey, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	case export.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var events []monitor.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding events: %w", err))
		return
	}

	g, err := s.loadGraph(w, r)
	if err != nil {
		return
	}

	ctx := r.Context()
	m := monitor.New(g, s.logger)
	for _, ev := range events {
		if err := m.Apply(ctx, ev); err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, taskgraph.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err)
			return
		}
	}

	doc := graphdoc.FromGraph(g)
	if err := s.store.Put(ctx, &doc); err != nil {
		s.storeError(w, r, "put", id, err)
		return
	}

	// Status transitions do not bump the structural version, so the cached
	// report and graph document for this version are now stale.
	_ = s.cache.Delete(ctx, cache.ReportKey(g.ID, g.Version()))
	_ = s.cache.Delete(ctx, cache.GraphKey(g.ID, g.Version()))

	writeJSON(w, http.StatusOK, map[string]any{
		"graph_id": id,
		"applied":  len(events),
		"progress": m.Progress(),
	})
}

// loadGraph fetches the stored document for the route's graph ID and rebuilds
// it. On failure it writes the error response and returns a non-nil error.
func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (*taskgraph.Graph, error) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	doc, err := s.store.Get(r.Context(), id)
	observability.Store().OnStoreGet(r.Context(), id, err == nil, time.Since(start))
	if err != nil {
		s.storeError(w, r, "get", id, err)
		return nil, err
	}

	g, err := graphdoc.ToGraph(*doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("rebuilding graph %q: %w", id, err))
		return nil, err
	}
	return g, nil
}

// storeError maps store failures to HTTP responses and fires the error hook.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	observability.Store().OnStoreError(r.Context(), op, id, err)
	s.logger.Error("store failure", "op", op, "graph", id, "err", err)
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
