package webapi

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/prahastiwi/sdgdoc/docpipe"
	"github.com/prahastiwi/sdgdoc/kit"
	"github.com/prahastiwi/sdgdoc/rules"
)

// Routes builds the HTTP router. Basic Auth applies to the API group only
// when cfg.AuthHash is set.
func (s *Service) Routes(cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/api/system/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{
			"status":           "ok",
			"rules_loaded":     len(s.store.Categories()),
			"total_categories": rules.NumCategories,
		})
	})

	r.Group(func(r chi.Router) {
		if cfg.AuthHash != "" {
			r.Use(basicAuth(cfg.AuthUser, cfg.AuthHash))
		}

		r.Get("/api/system/info", func(w http.ResponseWriter, _ *http.Request) {
			info := s.Info()
			info.MaxUploadMB = cfg.MaxUploadMB
			writeJSON(w, 200, info)
		})

		r.Post("/api/upload/document", func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes())
			if err := r.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					writeError(w, 413, errors.New("file too large"))
					return
				}
				writeError(w, 400, err)
				return
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				writeError(w, 400, errors.New("file field is required"))
				return
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				writeError(w, 400, err)
				return
			}

			res, err := s.ProcessDocument(r.Context(), data, header.Filename)
			if err != nil {
				writeError(w, extractStatus(err), err)
				return
			}
			writeJSON(w, 200, res)
		})

		r.Post("/api/analyze/rule", func(w http.ResponseWriter, r *http.Request) {
			var req AnalyzeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, err)
				return
			}
			res, err := s.AnalyzeText(r.Context(), req)
			if err != nil {
				writeError(w, 400, err)
				return
			}
			writeJSON(w, 200, res)
		})

		r.Get("/api/history", func(w http.ResponseWriter, r *http.Request) {
			entries, err := s.History(r.Context(), queryInt(r, "limit", 50))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, entries)
		})
	})

	return r
}

// extractStatus maps pipeline failures to HTTP status codes. Unsupported or
// unreadable input is the caller's fault; anything else is ours.
func extractStatus(err error) int {
	switch {
	case errors.Is(err, docpipe.ErrInvalidFilename),
		errors.Is(err, docpipe.ErrUnsupportedFormat):
		return 400
	case errors.Is(err, docpipe.ErrTooLarge):
		return 413
	case errors.Is(err, docpipe.ErrEmptyExtraction):
		return 422
	default:
		return 500
	}
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := newRequestID()
		ctx := kit.WithRequestID(r.Context(), reqID)
		ctx = kit.WithRemoteAddr(ctx, r.RemoteAddr)
		ww := &statusWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func newRequestID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// basicAuth enforces HTTP Basic Auth against a bcrypt password hash.
func basicAuth(user, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="sdgdoc"`)
				writeError(w, 401, errors.New("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
