package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
	Auth  auth.Verifier
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/", welcome)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/api/products", func(pr chi.Router) {
		pr.Get("/", s.list)
		pr.Get("/{id}", s.get)

		pr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireAuth(s.Auth))
			ar.Post("/", s.create)
			ar.Put("/{id}", s.update)
			ar.Delete("/{id}", s.delete)
		})
	})

	return r
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the Product Catalog API"))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	kit.WriteError(w, r, http.StatusNotFound, "route not found", kit.CodeNotFound)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", kit.CodeServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.storeError(w, r, "list products failed", err)
		return
	}

	filtered := FilterFromQuery(r.URL.Query()).Apply(products)
	kit.WriteList(w, http.StatusOK, len(filtered), filtered)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get product failed", err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", kit.CodeNotFound)
		return
	}

	kit.WriteData(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid json body", kit.CodeValidationError)
		return
	}
	if err := ValidateProduct(payload); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), kit.CodeValidationError)
		return
	}

	p := Product{
		ID:    "p_" + uuid.NewString(),
		Name:  *payload.Name,
		Price: payload.Price.(float64),
	}
	if payload.Description != nil {
		p.Description = *payload.Description
	}
	if payload.Category != nil {
		p.Category = *payload.Category
	}
	if payload.InStock != nil {
		p.InStock = *payload.InStock
	}

	if err := s.Store.Insert(r.Context(), p); err != nil {
		s.storeError(w, r, "insert product failed", err)
		return
	}

	kit.WriteData(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, err := decodePayload(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid json body", kit.CodeValidationError)
		return
	}
	if err := ValidateProduct(payload); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), kit.CodeValidationError)
		return
	}

	existing, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get product failed", err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", kit.CodeNotFound)
		return
	}

	// Shallow-merge the supplied fields over a copy of the stored record.
	// The id never changes.
	merged := existing
	merged.Name = *payload.Name
	merged.Price = payload.Price.(float64)
	if payload.Description != nil {
		merged.Description = *payload.Description
	}
	if payload.Category != nil {
		merged.Category = *payload.Category
	}
	if payload.InStock != nil {
		merged.InStock = *payload.InStock
	}

	found, err := s.Store.Replace(r.Context(), id, merged)
	if err != nil {
		s.storeError(w, r, "replace product failed", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", kit.CodeNotFound)
		return
	}

	kit.WriteData(w, http.StatusOK, merged)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := s.Store.Remove(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "remove product failed", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", kit.CodeNotFound)
		return
	}

	kit.WriteData(w, http.StatusOK, struct{}{})
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error", kit.CodeServerError)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (ProductPayload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	var p ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return ProductPayload{}, err
	}
	return p, nil
}
