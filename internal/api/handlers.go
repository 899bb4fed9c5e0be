package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zhangqin/crossgraph/internal/bootstrap"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/pipeline"
	"github.com/zhangqin/crossgraph/internal/store"
)

// App bundles the HTTP handlers and their dependencies. store may be nil;
// read endpoints then answer from the embedded snapshot and write endpoints
// report the store as unavailable.
type App struct {
	store *store.Client
	miner *pipeline.Miner
	boot  *bootstrap.Orchestrator
	log   *logger.Logger
}

// NewApp creates the handler set.
func NewApp(st *store.Client, miner *pipeline.Miner, boot *bootstrap.Orchestrator, log *logger.Logger) *App {
	return &App{store: st, miner: miner, boot: boot, log: log.With("component", "api")}
}

type graphResponse struct {
	Meta  map[string]any `json:"meta"`
	Nodes []model.Node   `json:"nodes"`
	Edges []model.Edge   `json:"edges"`
}

func newGraphResponse(meta map[string]any, nodes []model.Node, edges []model.Edge) graphResponse {
	if nodes == nil {
		nodes = []model.Node{}
	}
	if edges == nil {
		edges = []model.Edge{}
	}
	return graphResponse{Meta: meta, Nodes: nodes, Edges: edges}
}

func (a *App) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("response encode failed", "error", err)
	}
}

// Health reports process liveness and store connectivity.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	neo4j := "disconnected"
	if a.store != nil {
		neo4j = "connected"
	}
	a.respond(w, http.StatusOK, map[string]any{"status": "ok", "neo4j": neo4j})
}

// QueryAll returns the whole graph. Without a store, or while an empty graph
// is still bootstrapping, the embedded snapshot is served so the front end
// always has something to draw.
func (a *App) QueryAll(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		nodes, edges := store.SnapshotAll()
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"type": "全量数据(离线模式)"}, nodes, edges))
		return
	}

	ctx := r.Context()
	counts, err := a.store.Counts(ctx)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"type": "全量数据", "error": err.Error()}, nil, nil))
		return
	}
	if counts.Nodes == 0 {
		if marker, err := a.store.Bootstrapped(ctx); err == nil && !marker.Done {
			nodes, edges := store.SnapshotAll()
			a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"type": "全量数据(初始化中)"}, nodes, edges))
			return
		}
	}

	nodes, edges, err := a.store.All(ctx)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"type": "全量数据", "error": err.Error()}, nil, nil))
		return
	}
	a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"type": "全量数据"}, nodes, edges))
}

// QueryFilter returns the subgraph of one discipline.
func (a *App) QueryFilter(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"error": "store unavailable"}, nil, nil))
		return
	}
	domain := r.URL.Query().Get("domain")
	nodes, edges, err := a.store.FilterDomain(r.Context(), domain)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"filter_domain": domain, "error": err.Error()}, nil, nil))
		return
	}
	a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"filter_domain": domain}, nodes, edges))
}

// NodeDetail returns one concept by exact name with its neighborhood.
func (a *App) NodeDetail(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"error": "store unavailable"}, nil, nil))
		return
	}
	name := r.URL.Query().Get("node_name")
	center, nodes, edges, err := a.store.NodeDetail(r.Context(), name)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"node_name": name, "error": err.Error()}, nil, nil))
		return
	}

	resp := map[string]any{
		"meta":        map[string]any{"node_name": name},
		"node_detail": map[string]any{},
		"nodes":       []model.Node{},
		"edges":       []model.Edge{},
	}
	if center != nil {
		resp["node_detail"] = center
		resp["nodes"] = nodes
		resp["edges"] = edges
	}
	a.respond(w, http.StatusOK, resp)
}

// MultiDomain returns the subgraph spanning the requested disciplines.
// Repeated ?domains= parameters select them.
func (a *App) MultiDomain(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"error": "store unavailable"}, nil, nil))
		return
	}

	seen := make(map[string]bool)
	var domains []string
	for _, d := range r.URL.Query()["domains"] {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		domains = append(domains, d)
	}
	if len(domains) == 0 {
		a.respond(w, http.StatusOK, map[string]any{
			"meta": map[string]any{"domains": []string{}}, "nodes": []model.Node{}, "edges": []model.Edge{},
			"msg": "请选择有效领域",
		})
		return
	}

	nodes, edges, err := a.store.MultiDomain(r.Context(), domains)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"domains": domains, "error": err.Error()}, nil, nil))
		return
	}
	a.respond(w, http.StatusOK, newGraphResponse(map[string]any{
		"domains":    domains,
		"node_count": len(nodes),
		"edge_count": len(edges),
	}, nodes, edges))
}

// NodeSearch finds concepts by keyword over name and definition.
func (a *App) NodeSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	nodes, edges, meta, err := a.search(r, keyword)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": keyword, "error": err.Error()}, nil, nil))
		return
	}
	a.respond(w, http.StatusOK, newGraphResponse(meta, nodes, edges))
}

func (a *App) search(r *http.Request, keyword string) ([]model.Node, []model.Edge, map[string]any, error) {
	if a.store == nil {
		nodes, edges := store.SnapshotSearch(keyword)
		return nodes, edges, map[string]any{"keyword": keyword, "mode": "offline"}, nil
	}
	nodes, edges, err := a.store.SearchNodes(r.Context(), keyword)
	if err != nil {
		return nil, nil, nil, err
	}
	return nodes, edges, map[string]any{"keyword": keyword}, nil
}

type searchOrIngestRequest struct {
	Keyword    string `json:"keyword"`
	AutoIngest *bool  `json:"auto_ingest,omitempty"`
	Points     int    `json:"points,omitempty"`
}

// SearchOrIngest searches first; on a miss it mines the keyword, ingests the
// result and searches again. The mining detour only runs with a store and
// auto_ingest left on.
func (a *App) SearchOrIngest(w http.ResponseWriter, r *http.Request) {
	var req searchOrIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respond(w, http.StatusBadRequest, newGraphResponse(map[string]any{"error": "invalid request body"}, nil, nil))
		return
	}
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": "", "error": "empty keyword"}, nil, nil))
		return
	}

	nodes, edges, meta, err := a.search(r, keyword)
	if err != nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": keyword, "error": err.Error()}, nil, nil))
		return
	}
	if a.store == nil {
		a.respond(w, http.StatusOK, newGraphResponse(meta, nodes, edges))
		return
	}
	if len(nodes) > 0 {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": keyword, "ingested": false}, nodes, edges))
		return
	}

	autoIngest := req.AutoIngest == nil || *req.AutoIngest
	if !autoIngest || a.miner == nil {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": keyword, "ingested": false}, nil, nil))
		return
	}

	a.log.Info("search miss, mining", "keyword", keyword)
	doc, _, err := a.miner.MineAndIngest(r.Context(), keyword)
	if err != nil {
		a.log.Warn("auto-ingest failed", "keyword", keyword, "error", err)
	}

	nodes, edges, err = a.store.SearchNodes(r.Context(), keyword)
	if err == nil && len(nodes) > 0 {
		a.respond(w, http.StatusOK, newGraphResponse(map[string]any{"keyword": keyword, "ingested": true}, nodes, edges))
		return
	}
	// Nothing survived the ingestion gate; hand back the mined document.
	a.respond(w, http.StatusOK, map[string]any{
		"meta":  map[string]any{"keyword": keyword, "ingested": true, "mode": "generated"},
		"nodes": doc.Nodes,
		"edges": doc.Edges,
	})
}

// InsertFromFront accepts a loose graph payload, normalizes it and upserts
// it through the confidence gate.
func (a *App) InsertFromFront(w http.ResponseWriter, r *http.Request) {
	var payload LoosePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.respond(w, http.StatusOK, map[string]any{"code": 500, "msg": "入库失败：invalid request body", "data": nil})
		return
	}

	nodes, edges, err := Normalize(payload)
	if err != nil {
		a.respond(w, http.StatusOK, map[string]any{"code": 500, "msg": "入库失败：" + err.Error(), "data": nil})
		return
	}
	if a.store == nil {
		a.respond(w, http.StatusOK, map[string]any{"code": 500, "msg": "入库失败：store unavailable", "data": nil})
		return
	}

	res, err := a.store.Upsert(r.Context(), nodes, edges)
	if err != nil {
		a.respond(w, http.StatusOK, map[string]any{"code": 500, "msg": "入库失败：" + err.Error(), "data": nil})
		return
	}
	a.respond(w, http.StatusOK, map[string]any{"code": 200, "msg": "入库成功", "data": res})
}

// ClearAll wipes the whole database.
func (a *App) ClearAll(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		a.respond(w, http.StatusOK, map[string]any{"status": "error", "msg": "store unavailable"})
		return
	}
	if err := a.store.ClearAll(r.Context()); err != nil {
		a.respond(w, http.StatusOK, map[string]any{"status": "error", "msg": err.Error()})
		return
	}
	a.respond(w, http.StatusOK, map[string]any{"status": "success", "msg": "Cleared all data"})
}

// BootstrapStatus reports targets, live counts and bootstrap markers.
func (a *App) BootstrapStatus(w http.ResponseWriter, r *http.Request) {
	a.respond(w, http.StatusOK, a.boot.Status(r.Context()))
}

// BootstrapTrigger starts a background bootstrap run.
func (a *App) BootstrapTrigger(w http.ResponseWriter, r *http.Request) {
	if a.store == nil || a.miner == nil {
		a.respond(w, http.StatusOK, map[string]any{"ok": false, "reason": "store_or_miner_unavailable"})
		return
	}
	if a.boot.Status(r.Context()).Ready {
		a.respond(w, http.StatusOK, map[string]any{"ok": true, "already_ready": true})
		return
	}
	started := a.boot.Trigger()
	a.respond(w, http.StatusOK, map[string]any{"ok": true, "started": started})
}

// GenerateIngest mines one keyword on demand and returns the document. The
// ingestion step is best-effort; the mined document comes back either way.
func (a *App) GenerateIngest(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		a.respond(w, http.StatusBadRequest, map[string]any{"error": "keyword required"})
		return
	}
	if a.miner == nil {
		a.respond(w, http.StatusOK, map[string]any{"error": "miner not initialized"})
		return
	}

	a.log.Info("mining on demand", "keyword", keyword)
	doc, _, err := a.miner.MineAndIngest(r.Context(), keyword)
	if err != nil {
		a.log.Warn("ingest failed, returning document anyway", "keyword", keyword, "error", err)
	}
	a.respond(w, http.StatusOK, doc)
}
