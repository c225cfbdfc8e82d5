package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fundview/internal/diagnostics"
	"fundview/internal/rawdoc"
	"fundview/internal/results"
	"fundview/internal/simclient"
	"fundview/internal/viewmodel"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

const (
	requestIDHeader = "X-Request-ID"
	upstreamTimeout = 30 * time.Second
	maxCompareIDs   = 20
)

// API serves normalized view models over HTTP.
type API struct {
	client   simclient.Client
	results  *results.Store
	recorder *diagnostics.Recorder
	opts     viewmodel.Options
}

func New(client simclient.Client, store *results.Store, recorder *diagnostics.Recorder, opts viewmodel.Options) *API {
	return &API{client: client, results: store, recorder: recorder, opts: opts}
}

type errorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// Handler routes every request and tags it with a request id.
func (a *API) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		reqID := string(ctx.Request.Header.Peek(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, reqID)

		a.route(ctx, reqID)

		log.Info().
			Str("request_id", reqID).
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Dur("took", time.Since(start)).
			Msg("HTTP request")
	}
}

func (a *API) route(ctx *fasthttp.RequestCtx, reqID string) {
	path := strings.TrimSuffix(string(ctx.Path()), "/")
	method := string(ctx.Method())

	switch {
	case path == "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case path == "/v1/normalize":
		if method != fasthttp.MethodPost {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "use POST", reqID)
			return
		}
		a.handleNormalize(ctx, reqID)
	case path == "/v1/simulations":
		if method != fasthttp.MethodGet {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "use GET", reqID)
			return
		}
		a.handleList(ctx)
	case path == "/v1/compare":
		a.handleCompare(ctx, reqID)
	case strings.HasPrefix(path, "/v1/simulations/"):
		parts := strings.Split(strings.TrimPrefix(path, "/v1/simulations/"), "/")
		switch {
		case len(parts) == 1 && method == fasthttp.MethodGet:
			a.handleGet(ctx, parts[0], reqID)
		case len(parts) == 2 && parts[1] == "refresh" && method == fasthttp.MethodPost:
			a.handleRefresh(ctx, parts[0], reqID)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "route not found", reqID)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "route not found", reqID)
	}
}

func (a *API) handleNormalize(ctx *fasthttp.RequestCtx, reqID string) {
	body := ctx.PostBody()
	if len(strings.TrimSpace(string(body))) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "request body is empty", reqID)
		return
	}
	raw, err := rawdoc.ParseLenient(body)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid document: "+err.Error(), reqID)
		return
	}

	opts := a.opts
	if ctx.QueryArgs().GetBool("repair") {
		opts.Parity = viewmodel.ParityRepair
	}
	vm := viewmodel.NormalizeWith(raw, opts)
	a.report(vm)
	if ctx.QueryArgs().GetBool("store") && vm.ID != viewmodel.Unknown {
		a.results.Put(raw)
	}
	writeJSON(ctx, fasthttp.StatusOK, vm)
}

func (a *API) handleGet(ctx *fasthttp.RequestCtx, id, reqID string) {
	vm, ok := a.results.Get(id)
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("simulation %s is not loaded; POST /v1/simulations/%s/refresh first", id, id), reqID)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, vm)
}

func (a *API) handleRefresh(ctx *fasthttp.RequestCtx, id, reqID string) {
	vm, err := a.fetch(id)
	if err != nil {
		writeError(ctx, upstreamStatus(err), err.Error(), reqID)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, vm)
}

func (a *API) handleList(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, viewmodel.Compare(a.results.List()))
}

// handleCompare serves /v1/compare?ids=a,b,c. Simulations not yet loaded are fetched.
func (a *API) handleCompare(ctx *fasthttp.RequestCtx, reqID string) {
	var ids []string
	for _, id := range strings.Split(string(ctx.QueryArgs().Peek("ids")), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || len(ids) > maxCompareIDs {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("ids must list between 1 and %d simulations", maxCompareIDs), reqID)
		return
	}

	stores := make([]viewmodel.SimulationStore, len(ids))
	var g errgroup.Group
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			if vm, ok := a.results.Get(id); ok {
				stores[i] = vm
				return nil
			}
			vm, err := a.fetch(id)
			stores[i] = vm
			return err
		})
	}
	if err := g.Wait(); err != nil {
		writeError(ctx, upstreamStatus(err), err.Error(), reqID)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, viewmodel.Compare(stores))
}

func (a *API) fetch(id string) (viewmodel.SimulationStore, error) {
	cctx, cancel := context.WithTimeout(context.Background(), upstreamTimeout)
	defer cancel()

	raw, err := a.client.GetResults(cctx, id)
	if err != nil {
		return viewmodel.SimulationStore{}, err
	}
	vm, _ := a.results.PutAs(id, raw)
	a.report(vm)
	return vm, nil
}

func (a *API) report(vm viewmodel.SimulationStore) {
	if a.recorder != nil {
		a.recorder.Issues(vm.ID, viewmodel.Check(vm))
	}
}

func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, simclient.ErrNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, simclient.ErrNotConfigured):
		return fasthttp.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusGatewayTimeout
	default:
		return fasthttp.StatusBadGateway
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	out, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		ctx.Error("failed to encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(out)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message, reqID string) {
	writeJSON(ctx, status, errorResponse{Status: status, Message: message, RequestID: reqID})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (a *API) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            a.Handler(),
		Name:               "fundview",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       60 * time.Second,
		MaxRequestBodySize: 32 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP API")
		return srv.Shutdown()
	}
}
