package app

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"msci/pkg/analysis"
	"msci/pkg/engine"
	"msci/pkg/fastjson"
	"msci/pkg/logger"
	"msci/pkg/metrics"
	"msci/pkg/syntax"
	"msci/pkg/utils/coerce"
)

// maxLines bounds the size of one compile request.
const maxLines = 20000

type compileRequest struct {
	Lines   []string `json:"lines"`
	Text    string   `json:"text,omitempty"`
	Version string   `json:"version,omitempty"`
}

type compileResponse struct {
	Success  bool                `json:"success"`
	Version  syntax.GameVersion  `json:"version"`
	Errors   []engine.Diagnostic `json:"errors"`
	Warnings []engine.Diagnostic `json:"warnings"`
	Tree     []*nodeView         `json:"tree"`
}

// nodeView is the JSON shape of one compiled line.
type nodeView struct {
	Line     int                `json:"line"`
	Logic    engine.BranchLogic `json:"logic"`
	ID       uint32             `json:"id"`
	Text     string             `json:"text"`
	Errors   int                `json:"errors,omitempty"`
	Children []*nodeView        `json:"children,omitempty"`
}

func newNodeViews(nodes []*engine.CommandNode) []*nodeView {
	views := make([]*nodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, &nodeView{
			Line:     n.Line,
			Logic:    n.Logic,
			ID:       n.Command.ID(),
			Text:     n.Command.DisplayText(),
			Errors:   len(n.Errors),
			Children: newNodeViews(n.Children),
		})
	}
	return views
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) version(raw string) (syntax.GameVersion, error) {
	if raw == "" {
		return s.cfg.Version, nil
	}
	return syntax.ParseVersion(raw)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := fastjson.Decode(r.Body, &req); err != nil {
		fastjson.Write(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	version, err := s.version(req.Version)
	if err != nil {
		fastjson.Write(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	lines := req.Lines
	if lines == nil && req.Text != "" {
		lines = engine.SplitLines(req.Text)
	}
	if len(lines) > maxLines {
		fastjson.Write(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "too many lines"})
		return
	}

	start := time.Now()
	res := engine.Compile(s.catalog, version, lines)
	report := analysis.NewAnalyzer().Analyze(res)
	metrics.ObserveCompile(version.String(), len(lines), len(report.Errors), len(report.Warnings), time.Since(start))
	logger.Annotate(r.Context(),
		slog.String("version", version.String()),
		slog.Int("lines", len(lines)),
		slog.Int("errors", len(report.Errors)),
		slog.Int("warnings", len(report.Warnings)),
	)

	resp := compileResponse{
		Success:  report.Success(),
		Version:  version,
		Errors:   report.Errors,
		Warnings: report.Warnings,
		Tree:     newNodeViews(res.Root.Children),
	}
	if resp.Errors == nil {
		resp.Errors = []engine.Diagnostic{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []engine.Diagnostic{}
	}
	fastjson.Write(w, http.StatusOK, resp)
}

type commandView struct {
	*syntax.Signature
	Display string `json:"display"`
	Anchor  string `json:"anchor"`
}

func newCommandView(sig *syntax.Signature) commandView {
	return commandView{Signature: sig, Display: sig.DisplayText(nil), Anchor: sig.Anchor()}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id, err := coerce.ToInt64(chi.URLParam(r, "id"))
	if err != nil || id < 0 || id > int64(syntax.UnrecognisedID) {
		fastjson.Write(w, http.StatusBadRequest, errorResponse{Error: "invalid command id"})
		return
	}
	version, err := s.version(r.URL.Query().Get("version"))
	if err != nil {
		fastjson.Write(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sig, ok := s.catalog.FindByID(uint32(id), version)
	if !ok {
		fastjson.Write(w, http.StatusNotFound, errorResponse{Error: "command not found"})
		return
	}
	fastjson.Write(w, http.StatusOK, newCommandView(sig))
}

// handleCommands lists the catalog, optionally filtered by ?group= and
// ?version=.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var version syntax.GameVersion
	if raw := q.Get("version"); raw != "" {
		v, err := syntax.ParseVersion(raw)
		if err != nil {
			fastjson.Write(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		version = v
	}
	group := strings.ToUpper(q.Get("group"))

	views := []commandView{}
	for _, sig := range s.catalog.Signatures() {
		if version != 0 && sig.Versions&version == 0 {
			continue
		}
		if group != "" && sig.Group.String() != group {
			continue
		}
		views = append(views, newCommandView(sig))
	}
	fastjson.Write(w, http.StatusOK, views)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.dbMgr != nil {
		if db := s.dbMgr.GetConnection(catalogDB); db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				fastjson.Write(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN", "error": "catalog database unreachable"})
				return
			}
		}
	}
	fastjson.Write(w, http.StatusOK, map[string]interface{}{
		"status":   "OK",
		"commands": s.catalog.Len(),
	})
}
