package controllers

import (
	"net/http"

	"github.com/petadopt/petadopt-backend/api/middleware"
	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/api/views"
	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/logger"
)

// shell collects the per-request page chrome and consumes pending flashes.
func shell(w http.ResponseWriter, r *http.Request) views.Shell {
	return views.Shell{
		Principal: middleware.PrincipalFromContext(r.Context()),
		Flashes:   responses.PopFlashes(w, r),
	}
}

// Index lists available pets for everyone.
func Index(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByStatus(r.Context(), enums.PetStatusAvailable)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.RenderHTML(w, http.StatusOK, views.IndexPage(views.IndexView{
			Shell: shell(w, r),
			Pets:  list,
		}))
	}
}

// Dashboard shows admins every listing with status counts and everyone else
// the available ones.
func Dashboard(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal := middleware.PrincipalFromContext(ctx)

		if principal.IsAuthenticated() && principal.IsAdmin {
			list, err := svc.ListAll(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			counts, err := svc.StatusCounts(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.RenderHTML(w, http.StatusOK, views.AdminDashboardPage(views.AdminDashboard{
				Shell:  shell(w, r),
				Pets:   list,
				Counts: counts,
			}))
			return
		}

		list, err := svc.ListByStatus(ctx, enums.PetStatusAvailable)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.RenderHTML(w, http.StatusOK, views.AdopterDashboardPage(views.AdopterDashboard{
			Shell: shell(w, r),
			Pets:  list,
		}))
	}
}

// SpeciesList shows available pets of one species.
func SpeciesList(svc pets.Service, species enums.Species, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListBySpecies(r.Context(), species, enums.PetStatusAvailable)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.RenderHTML(w, http.StatusOK, views.SpeciesPage(views.SpeciesView{
			Shell:   shell(w, r),
			Species: species,
			Pets:    list,
		}))
	}
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, ""))
	}
}
