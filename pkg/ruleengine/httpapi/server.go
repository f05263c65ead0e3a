// Package httpapi exposes the rule service as JSON over HTTP.
//
// Routes:
//
//	GET    /rules          names of all stored rules
//	POST   /rules          {"rule": "..."} stores a rule
//	GET    /rules/{name}   {"name": "...", "rule_string": "..."}
//	DELETE /rules/{name}   removes a rule
//	POST   /evaluate       {"rule" | "rule_name", "data"} -> {"result": bool}
//	POST   /combine        {"rules", "rule_names"} -> {"combined_rule_ast": "..."}
//	GET    /healthz        liveness
//
// The older /get_rule_names, /add_rule, /get_rule_string?name= and
// /combine_rules paths are served as aliases.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/service"
	"github.com/valyala/fastjson"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Server serves the rule service over HTTP.
type Server struct {
	engine  *service.Engine
	logger  *slog.Logger
	parsers fastjson.ParserPool
	router  *mux.Router
}

// NewServer creates a Server for engine. A nil logger disables request logs.
func NewServer(engine *service.Engine, logger *slog.Logger) *Server {
	s := &Server{
		engine: engine,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rules", s.handleListRules).Methods(http.MethodGet)
	r.HandleFunc("/rules", s.handleAddRule).Methods(http.MethodPost)
	r.HandleFunc("/rules/{name}", s.handleGetRule).Methods(http.MethodGet)
	r.HandleFunc("/rules/{name}", s.handleDeleteRule).Methods(http.MethodDelete)
	r.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	r.HandleFunc("/combine", s.handleCombine).Methods(http.MethodPost)

	r.HandleFunc("/get_rule_names", s.handleListRules).Methods(http.MethodGet)
	r.HandleFunc("/add_rule", s.handleAddRule).Methods(http.MethodPost)
	r.HandleFunc("/get_rule_string", s.handleGetRule).Methods(http.MethodGet).Queries("name", "{name}")
	r.HandleFunc("/combine_rules", s.handleCombine).Methods(http.MethodPost)

	r.Use(s.logRequests)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	names, err := s.engine.RuleNames(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

type ruleView struct {
	Name string `json:"name"`
	Text string `json:"rule_string"`
	AST  string `json:"ast,omitempty"`
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := s.parseBody(p, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, err := stringField(v, "rule")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if text == "" {
		s.writeError(w, badRequest("rule string is required"))
		return
	}

	added, err := s.engine.AddRule(r.Context(), text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string   `json:"message"`
		Rule    ruleView `json:"rule"`
	}{
		Message: "Rule added successfully",
		Rule: ruleView{
			Name: added.Rule.Name,
			Text: added.Rule.Text,
			AST:  expr.Render(added.Tree),
		},
	})
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	text, err := s.engine.RuleText(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleView{Name: name, Text: text})
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRule(r.Context(), mux.Vars(r)["name"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := s.parseBody(p, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req service.EvaluateRequest
	if req.Rule, err = stringField(v, "rule"); err != nil {
		s.writeError(w, err)
		return
	}
	if req.RuleName, err = stringField(v, "rule_name"); err != nil {
		s.writeError(w, err)
		return
	}
	if data := v.Get("data"); data != nil && data.Type() != fastjson.TypeNull {
		if req.Data, err = recordFromValue(data); err != nil {
			s.writeError(w, badRequest("%v", err))
			return
		}
	}

	result, err := s.engine.Evaluate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"result": result})
}

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := s.parseBody(p, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req service.CombineRequest
	if req.Rules, err = stringList(v, "rules"); err != nil {
		s.writeError(w, err)
		return
	}
	if req.RuleNames, err = stringList(v, "rule_names"); err != nil {
		s.writeError(w, err)
		return
	}

	tree, err := s.engine.Combine(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"combined_rule_ast": expr.Render(tree)})
}

// requestError is a malformed request body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// parseBody reads the request body and parses it as a JSON object with p.
func (s *Server) parseBody(p *fastjson.Parser, r *http.Request) (*fastjson.Value, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, badRequest("invalid JSON: %v", err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, badRequest("request body must be a JSON object")
	}
	return v, nil
}

// stringField returns the string at key, or "" when it is absent or null.
func stringField(v *fastjson.Value, key string) (string, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return "", nil
	}
	b, err := f.StringBytes()
	if err != nil {
		return "", badRequest("%s must be a string", key)
	}
	return string(b), nil
}

// stringList returns the array of strings at key, or nil when it is absent
// or null.
func stringList(v *fastjson.Value, key string) ([]string, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return nil, nil
	}
	items, err := f.Array()
	if err != nil {
		return nil, badRequest("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		b, err := item.StringBytes()
		if err != nil {
			return nil, badRequest("%s must be an array of strings", key)
		}
		out = append(out, string(b))
	}
	return out, nil
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest
	}
	switch ruleengine.Categorize(err) {
	case ruleengine.CategoryInvalid:
		return http.StatusBadRequest
	case ruleengine.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
		)
	})
}
