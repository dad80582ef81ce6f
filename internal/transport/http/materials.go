package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type CatalogReader interface {
	GetMaterial(ctx context.Context, id string) (domain.Material, error)
	ListMaterials(ctx context.Context, filter app.MaterialFilter) ([]domain.Material, error)
}

type CatalogWriter interface {
	CreateMaterial(ctx context.Context, in app.CreateMaterialInput) (domain.Material, error)
	UpdateMaterial(ctx context.Context, in app.UpdateMaterialInput) (domain.Material, error)
}

func HandleGetMaterial(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		material, err := svc.GetMaterial(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMaterialResponse(material))
	}
}

func HandleListMaterials(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		materials, err := svc.ListMaterials(r.Context(), app.MaterialFilter{
			Search:        q.Get("search"),
			MaterialType:  q.Get("type"),
			AvailableOnly: q.Get("available") == "true",
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]materialResponse, 0, len(materials))
		for _, m := range materials {
			out = append(out, toMaterialResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type materialRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	AccessionNumber string `json:"accession_number"`
	MaterialType    string `json:"material_type"`
	PublicationYear int    `json:"publication_year"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	TotalCopies     int    `json:"total_copies"`
}

func HandleCreateMaterial(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req materialRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "title is required")
			return
		}
		if req.TotalCopies < 0 {
			writeError(w, http.StatusBadRequest, codeValidation, "total_copies cannot be negative")
			return
		}

		material, err := svc.CreateMaterial(r.Context(), app.CreateMaterialInput{
			Title:           req.Title,
			Author:          req.Author,
			ISBN:            req.ISBN,
			AccessionNumber: req.AccessionNumber,
			MaterialType:    req.MaterialType,
			PublicationYear: req.PublicationYear,
			Description:     req.Description,
			ImageURL:        req.ImageURL,
			TotalCopies:     req.TotalCopies,
			Actor:           principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMaterialResponse(material))
	}
}

func HandleUpdateMaterial(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req materialRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TotalCopies != 0 {
			writeError(w, http.StatusBadRequest, codeValidation,
				"total_copies cannot be changed through a catalog update")
			return
		}

		material, err := svc.UpdateMaterial(r.Context(), app.UpdateMaterialInput{
			ID:              chi.URLParam(r, "id"),
			Title:           req.Title,
			Author:          req.Author,
			ISBN:            req.ISBN,
			AccessionNumber: req.AccessionNumber,
			MaterialType:    req.MaterialType,
			PublicationYear: req.PublicationYear,
			Description:     req.Description,
			ImageURL:        req.ImageURL,
			Actor:           principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMaterialResponse(material))
	}
}
